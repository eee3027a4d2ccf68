package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"example.com/bankquest/backend/internal/ai"
)

func newChallengeCmd(opts *rootOptions) *cobra.Command {
	flags := &snapshotFlags{}
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Generate a personalized financial challenge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := flags.snapshot()
			if err != nil {
				return err
			}
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return printGeneration(cmd.OutOrStdout(), service.GenerateChallenge(cmd.Context(), snapshot))
		},
	}
	flags.register(cmd)

	return cmd
}

func newTasksCmd(opts *rootOptions) *cobra.Command {
	flags := &snapshotFlags{}
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Suggest additional small financial tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot, err := flags.snapshot()
			if err != nil {
				return err
			}
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return printGeneration(cmd.OutOrStdout(), service.GenerateAdditionalTasks(cmd.Context(), snapshot))
		},
	}
	flags.register(cmd)

	return cmd
}

func newGoalCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "goal <text>",
		Short: "Parse free-form goal text into amount, emoji, description and category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return fmt.Errorf("goal text is required")
			}
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return printGeneration(cmd.OutOrStdout(), service.ParseGoal(cmd.Context(), text))
		},
	}
}

func newEmojiCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "emoji <text>",
		Short: "Pick an emoji for a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			return printGeneration(cmd.OutOrStdout(), service.GenerateGoalEmoji(cmd.Context(), text))
		},
	}
}

func newAchievementsCmd(opts *rootOptions) *cobra.Command {
	stats := ai.AchievementStats{}
	cmd := &cobra.Command{
		Use:   "achievements",
		Short: "Generate achievement badges for user stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return printGeneration(cmd.OutOrStdout(), service.GenerateAchievements(cmd.Context(), stats))
		},
	}
	cmd.Flags().IntVar(&stats.XP, "xp", 0, "current XP")
	cmd.Flags().IntVar(&stats.Level, "level", 1, "current level")
	cmd.Flags().IntVar(&stats.CompletedChallenges, "completed", 0, "completed challenges")
	cmd.Flags().IntVar(&stats.Streak, "streak", 0, "current streak in days")
	cmd.Flags().IntVar(&stats.DaysActive, "days-active", 1, "days active")
	cmd.Flags().IntVar(&stats.GoalsSet, "goals", 0, "total goals set")

	return cmd
}

func newStreakCmd(opts *rootOptions) *cobra.Command {
	stats := ai.StreakStats{}
	cmd := &cobra.Command{
		Use:   "streak",
		Short: "Generate a motivational streak message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return printGeneration(cmd.OutOrStdout(), service.GenerateStreakMessage(cmd.Context(), stats))
		},
	}
	cmd.Flags().IntVar(&stats.CurrentStreak, "current", 0, "current streak in days")
	cmd.Flags().IntVar(&stats.LongestStreak, "longest", 0, "longest streak in days")
	cmd.Flags().StringVar(&stats.LastChallenge, "last", "None", "last completed challenge")
	cmd.Flags().StringVar(&stats.RecentProgress, "progress", "New user", "recent progress summary")

	return cmd
}

func newLeaderboardCmd(opts *rootOptions) *cobra.Command {
	stats := ai.LeaderboardStats{}
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Generate leaderboard context for a position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service, err := newService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			return printGeneration(cmd.OutOrStdout(), service.GenerateLeaderboardContext(cmd.Context(), stats))
		},
	}
	cmd.Flags().IntVar(&stats.Position, "position", 1, "leaderboard position")
	cmd.Flags().IntVar(&stats.XP, "xp", 0, "user XP")
	cmd.Flags().IntVar(&stats.Level, "level", 1, "user level")
	cmd.Flags().IntVar(&stats.WeeklyChallenges, "weekly", 0, "challenges completed this week")

	return cmd
}
