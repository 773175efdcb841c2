package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/membry/mpm/internal/integration"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Sync and inspect the Membry team roster",
}

var rosterSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the member roster from Membry and update the team store",
	Long: `Fetch all members from the configured Membry roster API, infer skills from
each member's title and department, and upsert them into the team store.
Existing members keep their load counters and assignments.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Roster == nil {
			return fmt.Errorf("roster provider not configured: set roster.base_url in .mpmconfig")
		}
		if Team == nil {
			return fmt.Errorf("team store not initialized")
		}

		rosterMembers, err := Roster.FetchMembers(cmd.Context())
		if err != nil {
			return fmt.Errorf("syncing roster: %w", err)
		}

		availability := 40.0
		if Config != nil && Config.Defaults.Availability > 0 {
			availability = Config.Defaults.Availability
		}

		for _, rm := range rosterMembers {
			member := integration.MemberFromRoster(rm, availability)
			if err := Team.UpsertMember(member); err != nil {
				return fmt.Errorf("syncing roster: %w", err)
			}
		}

		if err := Team.Save(); err != nil {
			return fmt.Errorf("syncing roster: %w", err)
		}

		logEvent("roster.synced", "", "roster synced", map[string]any{
			"members": len(rosterMembers),
		})

		fmt.Printf("Synced %d member(s) from Membry.\n", len(rosterMembers))
		return nil
	},
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members with skills and load",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Team == nil {
			return fmt.Errorf("team store not initialized")
		}

		members, err := Team.GetAllMembers()
		if err != nil {
			return fmt.Errorf("listing members: %w", err)
		}
		if len(members) == 0 {
			fmt.Println("No members found. Run 'mpm roster sync' first.")
			return nil
		}

		fmt.Printf("%-12s %-20s %-24s %10s %8s\n", "ID", "NAME", "SKILLS", "LOAD", "TASKS")
		for _, m := range members {
			skills := ""
			for i, s := range m.Skills {
				if i > 0 {
					skills += ","
				}
				skills += string(s)
			}
			fmt.Printf("%-12s %-20s %-24s %5.1f/%4.0fh %8d\n",
				m.ID, truncate(m.Name, 20), truncate(skills, 24), m.CurrentLoad, m.Availability, len(m.AssignedTaskIDs))
		}
		return nil
	},
}

func init() {
	rosterCmd.AddCommand(rosterSyncCmd)
	rosterCmd.AddCommand(rosterListCmd)
	rootCmd.AddCommand(rosterCmd)
}
