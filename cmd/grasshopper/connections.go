package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gardenlabs/grasshopper/registry"
)

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "Manage saved connection profiles",
}

func init() {
	connectionsCmd.AddCommand(connectionsAddCmd)
	connectionsCmd.AddCommand(connectionsListCmd)
	connectionsCmd.AddCommand(connectionsRemoveCmd)
	connectionsCmd.AddCommand(connectionsUseCmd)
}

var connectionsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Save a connection profile",
	Long: `Save the connection settings given by --uri, --user, --password, and
--database under a name. Without a name a short random one is assigned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registryPath()
		if err != nil {
			return err
		}
		reg, err := registry.Open(path)
		if err != nil {
			return err
		}
		c := registry.Connection{
			URI:      connURI,
			Username: connUser,
			Password: connPassword,
			Database: connDatabase,
		}
		if len(args) == 1 {
			c.Name = args[0]
		}
		saved, err := reg.Add(c)
		if err != nil {
			return err
		}
		fmt.Printf("Saved connection %q (%s)\n", saved.Name, saved.URI)
		return nil
	},
}

var connectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registryPath()
		if err != nil {
			return err
		}
		reg, err := registry.Open(path)
		if err != nil {
			return err
		}
		profiles := reg.List()
		if len(profiles) == 0 {
			fmt.Println("No saved connections.")
			return nil
		}
		def, _ := reg.Default()
		for _, c := range profiles {
			marker := " "
			if c.Name == def.Name {
				marker = "*"
			}
			fmt.Printf("%s %-20s %s", marker, c.Name, c.URI)
			if c.Database != "" {
				fmt.Printf(" (%s)", c.Database)
			}
			fmt.Println()
		}
		return nil
	},
}

var connectionsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a saved connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registryPath()
		if err != nil {
			return err
		}
		reg, err := registry.Open(path)
		if err != nil {
			return err
		}
		if err := reg.Remove(args[0]); err != nil {
			return err
		}
		fmt.Printf("Removed connection %q\n", args[0])
		return nil
	},
}

var connectionsUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Mark a saved connection profile as the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := registryPath()
		if err != nil {
			return err
		}
		reg, err := registry.Open(path)
		if err != nil {
			return err
		}
		if err := reg.SetDefault(args[0]); err != nil {
			return err
		}
		fmt.Printf("Default connection is now %q\n", args[0])
		return nil
	},
}
