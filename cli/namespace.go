package cli

import (
	"github.com/gear6io/lakecat/catalog/shared"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var namespaceCmd = &cobra.Command{
	Use:   "namespace",
	Short: "Manage catalog namespaces",
	Long: `Manage namespaces in the configured catalog.

Examples:
  lakecat namespace create analytics
  lakecat namespace create analytics.events --mode exist_ok
  lakecat namespace list
  lakecat namespace list analytics --page-size 50
  lakecat namespace describe analytics
  lakecat namespace drop analytics --behavior cascade`,
}

var (
	nsCreateMode  string
	nsCreateProps []string
	nsDropMode    string
	nsDropBehav   string
	nsPageSize    int
	nsPageToken   string
)

var namespaceCreateCmd = &cobra.Command{
	Use:   "create <namespace>",
	Short: "Create a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceCreate,
}

var namespaceListCmd = &cobra.Command{
	Use:   "list [parent]",
	Short: "List child namespaces",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNamespaceList,
}

var namespaceDescribeCmd = &cobra.Command{
	Use:   "describe <namespace>",
	Short: "Show namespace properties",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceDescribe,
}

var namespaceDropCmd = &cobra.Command{
	Use:   "drop <namespace>",
	Short: "Drop a namespace",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceDrop,
}

var namespaceExistsCmd = &cobra.Command{
	Use:   "exists <namespace>",
	Short: "Check whether a namespace exists",
	Args:  cobra.ExactArgs(1),
	RunE:  runNamespaceExists,
}

func init() {
	namespaceCreateCmd.Flags().StringVar(&nsCreateMode, "mode", "create", "creation mode: create, exist_ok or overwrite")
	namespaceCreateCmd.Flags().StringArrayVarP(&nsCreateProps, "property", "p", nil, "namespace property as key=value (repeatable)")

	namespaceListCmd.Flags().IntVar(&nsPageSize, "page-size", 0, "maximum entries per page")
	namespaceListCmd.Flags().StringVar(&nsPageToken, "page-token", "", "token from a previous page")

	namespaceDropCmd.Flags().StringVar(&nsDropMode, "mode", "fail", "drop mode: fail or skip")
	namespaceDropCmd.Flags().StringVar(&nsDropBehav, "behavior", "restrict", "drop behavior: restrict or cascade")

	namespaceCmd.AddCommand(namespaceCreateCmd)
	namespaceCmd.AddCommand(namespaceListCmd)
	namespaceCmd.AddCommand(namespaceDescribeCmd)
	namespaceCmd.AddCommand(namespaceDropCmd)
	namespaceCmd.AddCommand(namespaceExistsCmd)
}

func runNamespaceCreate(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	mode, err := shared.ParseCreateMode(nsCreateMode)
	if err != nil {
		return err
	}
	props, err := parseProperties(nsCreateProps)
	if err != nil {
		return err
	}

	_, err = cat.CreateNamespace(cmd.Context(), &shared.CreateNamespaceRequest{
		ID:         parseIdentifier(args[0]),
		Mode:       mode,
		Properties: props,
	})
	if err != nil {
		return err
	}

	pterm.Success.Printf("Namespace %s created\n", args[0])
	return nil
}

func runNamespaceList(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	parent := shared.Root()
	if len(args) == 1 {
		parent = parseIdentifier(args[0])
	}

	resp, err := cat.ListNamespaces(cmd.Context(), &shared.ListNamespacesRequest{
		Parent:    parent,
		PageToken: nsPageToken,
		PageSize:  nsPageSize,
	})
	if err != nil {
		return err
	}

	if len(resp.Namespaces) == 0 {
		pterm.Info.Println("No namespaces found")
		return nil
	}
	for _, name := range resp.Namespaces {
		pterm.Println(name)
	}
	if resp.NextPageToken != "" {
		pterm.Info.Printf("More results available with --page-token %s\n", resp.NextPageToken)
	}
	return nil
}

func runNamespaceDescribe(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	resp, err := cat.DescribeNamespace(cmd.Context(), &shared.DescribeNamespaceRequest{ID: parseIdentifier(args[0])})
	if err != nil {
		return err
	}

	renderProperties(args[0], resp.Properties)
	return nil
}

func runNamespaceDrop(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	mode, err := shared.ParseDropMode(nsDropMode)
	if err != nil {
		return err
	}
	behavior, err := shared.ParseDropBehavior(nsDropBehav)
	if err != nil {
		return err
	}

	resp, err := cat.DropNamespace(cmd.Context(), &shared.DropNamespaceRequest{
		ID:       parseIdentifier(args[0]),
		Mode:     mode,
		Behavior: behavior,
	})
	if err != nil {
		return err
	}

	if resp.Dropped {
		pterm.Success.Printf("Namespace %s dropped\n", args[0])
	} else {
		pterm.Info.Printf("Namespace %s did not exist, nothing dropped\n", args[0])
	}
	return nil
}

func runNamespaceExists(cmd *cobra.Command, args []string) error {
	cat, _, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	exists, err := cat.NamespaceExists(cmd.Context(), parseIdentifier(args[0]))
	if err != nil {
		return err
	}

	if exists {
		pterm.Success.Printf("Namespace %s exists\n", args[0])
	} else {
		pterm.Warning.Printf("Namespace %s does not exist\n", args[0])
	}
	return nil
}

func renderProperties(title string, props map[string]string) {
	if len(props) == 0 {
		pterm.Info.Printf("%s has no properties\n", title)
		return
	}
	data := pterm.TableData{{"Key", "Value"}}
	for k, v := range props {
		data = append(data, []string{k, v})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
