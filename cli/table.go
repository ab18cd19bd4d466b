package cli

import (
	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage catalog table entries",
	Long: `Manage table metadata entries in the configured catalog.

Table entries record where table data lives; dropping an entry never
touches the data at its location.

Examples:
  lakecat table create analytics.events --location s3://bucket/events.lance
  lakecat table create analytics.events            # location derived from root
  lakecat table list analytics
  lakecat table describe analytics.events
  lakecat table drop analytics.events --mode skip`,
}

var (
	tblCreateMode     string
	tblCreateLocation string
	tblCreateProps    []string
	tblDropMode       string
	tblPageSize       int
	tblPageToken      string
)

var tableCreateCmd = &cobra.Command{
	Use:   "create <namespace.table>",
	Short: "Register a table entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableCreate,
}

var tableListCmd = &cobra.Command{
	Use:   "list <namespace>",
	Short: "List tables in a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableList,
}

var tableDescribeCmd = &cobra.Command{
	Use:   "describe <namespace.table>",
	Short: "Show a table's location and properties",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableDescribe,
}

var tableDropCmd = &cobra.Command{
	Use:   "drop <namespace.table>",
	Short: "Remove a table entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableDrop,
}

var tableExistsCmd = &cobra.Command{
	Use:   "exists <namespace.table>",
	Short: "Check whether a table entry exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runTableExists,
}

func init() {
	tableCreateCmd.Flags().StringVar(&tblCreateMode, "mode", "create", "creation mode: create, exist_ok or overwrite")
	tableCreateCmd.Flags().StringVar(&tblCreateLocation, "location", "", "table data location; derived from the catalog root when empty")
	tableCreateCmd.Flags().StringArrayVarP(&tblCreateProps, "property", "p", nil, "table property as key=value (repeatable)")

	tableListCmd.Flags().IntVar(&tblPageSize, "page-size", 0, "maximum entries per page")
	tableListCmd.Flags().StringVar(&tblPageToken, "page-token", "", "token from a previous page")

	tableDropCmd.Flags().StringVar(&tblDropMode, "mode", "fail", "drop mode: fail or skip")

	tableCmd.AddCommand(tableCreateCmd)
	tableCmd.AddCommand(tableListCmd)
	tableCmd.AddCommand(tableDescribeCmd)
	tableCmd.AddCommand(tableDropCmd)
	tableCmd.AddCommand(tableExistsCmd)
}

func runTableCreate(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	mode, err := shared.ParseCreateMode(tblCreateMode)
	if err != nil {
		return err
	}
	props, err := parseProperties(tblCreateProps)
	if err != nil {
		return err
	}

	resp, err := cat.DeclareTable(cmd.Context(), &shared.DeclareTableRequest{
		ID:         parseIdentifier(args[0]),
		Location:   tblCreateLocation,
		Mode:       mode,
		Properties: props,
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("Table %s registered at %s\n", args[0], resp.Location)
	return nil
}

func runTableList(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	resp, err := cat.ListTables(cmd.Context(), &shared.ListTablesRequest{
		Namespace: parseIdentifier(args[0]),
		PageToken: tblPageToken,
		PageSize:  tblPageSize,
	})
	if err != nil {
		return err
	}

	if len(resp.Tables) == 0 {
		pterm.Info.Printf("No tables found in namespace %s\n", args[0])
		return nil
	}
	for _, name := range resp.Tables {
		pterm.Println(name)
	}
	if resp.NextPageToken != "" {
		pterm.Info.Printf("More results available with --page-token %s\n", resp.NextPageToken)
	}
	return nil
}

func runTableDescribe(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	resp, err := cat.DescribeTable(cmd.Context(), &shared.DescribeTableRequest{ID: parseIdentifier(args[0])})
	if err != nil {
		return err
	}

	pterm.Println("Location: " + resp.Location)
	renderProperties(args[0], resp.Properties)
	return nil
}

func runTableDrop(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	mode, err := shared.ParseDropMode(tblDropMode)
	if err != nil {
		return err
	}

	resp, err := cat.DeregisterTable(cmd.Context(), &shared.DeregisterTableRequest{
		ID:   parseIdentifier(args[0]),
		Mode: mode,
	})
	if err != nil {
		return err
	}

	if resp.Dropped {
		pterm.Success.Printf("Table %s deregistered, data remains at %s\n", args[0], resp.Location)
	} else {
		pterm.Info.Printf("Table %s did not exist, nothing dropped\n", args[0])
	}
	return nil
}

func runTableExists(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	exists, err := cat.TableExists(cmd.Context(), parseIdentifier(args[0]))
	if err != nil {
		return err
	}

	if exists {
		pterm.Success.Printf("Table %s exists\n", args[0])
	} else {
		pterm.Warning.Printf("Table %s does not exist\n", args[0])
	}
	return nil
}
