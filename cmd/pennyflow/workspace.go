package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pennyflow/pennyflow/internal/cli"
	"github.com/pennyflow/pennyflow/internal/model"
)

func workspaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage workspaces",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a workspace",
		Args:  cobra.ExactArgs(1),
		RunE:  runWorkspaceCreate,
	}
	create.Flags().String("role", string(model.RoleOwner), "your role in the workspace (viewer, editor, owner)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List workspaces",
		Args:  cobra.NoArgs,
		RunE:  runWorkspaceList,
	}

	cmd.AddCommand(create, list)
	return cmd
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, _, cleanup, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	roleFlag, _ := cmd.Flags().GetString("role")
	role := model.Role(roleFlag)
	if !role.IsValid() {
		return fmt.Errorf("invalid role: %s", roleFlag)
	}

	ws, err := store.CreateWorkspace(ctx, args[0], role)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	cmd.Println(cli.FormatSuccess(fmt.Sprintf("Created workspace %q", ws.Name)))
	cmd.Printf("ID: %s\n", ws.ID)
	cmd.Println(cli.SubtleStyle.Render("Use it with --workspace " + ws.ID))
	return nil
}

func runWorkspaceList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, app, cleanup, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	workspaces, err := store.ListWorkspaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to list workspaces: %w", err)
	}

	if len(workspaces) == 0 {
		cmd.Println(cli.SubtleStyle.Render("No workspaces yet. Create one with: pennyflow workspace create <name>"))
		return nil
	}

	for _, ws := range workspaces {
		marker := "  "
		if ws.ID == app.WorkspaceID {
			marker = cli.SuccessStyle.Render("* ")
		}
		cmd.Printf("%s%s  %s  %s\n", marker, ws.ID, ws.Name, cli.SubtleStyle.Render(string(ws.Role)))
	}
	return nil
}
