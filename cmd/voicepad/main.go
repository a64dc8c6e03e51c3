package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/voicepad/voicepad/internal/bus"
	"github.com/voicepad/voicepad/internal/config"
	"github.com/voicepad/voicepad/internal/daemon"
	"github.com/voicepad/voicepad/internal/store"
	"github.com/voicepad/voicepad/internal/tui"
)

func main() {
	_ = rootCmd.Execute()
}

var rootCmd = &cobra.Command{
	Use:   "voicepad",
	Short: "Record, play back and transcribe voice memos",
}

func init() {
	rootCmd.AddCommand(
		serveCmd(),
		recordCmd(),
		pauseCmd(),
		stopCmd(),
		playCmd(),
		toggleCmd(),
		haltCmd(),
		listCmd(),
		statusCmd(),
		versionCmd(),
		stopDaemonCmd(),
		configureCmd(),
	)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := daemon.New()
			if err != nil {
				return fmt.Errorf("failed to create daemon: %w", err)
			}
			return d.Run()
		},
	}
}

func recordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Start a new recording (supersedes a live one)",
		RunE:  sendSimple("record", "failed to start recording"),
	}
}

func pauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause or resume the current recording",
		RunE:  sendSimple("pause", "failed to pause recording"),
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the current recording and queue transcription",
		RunE:  sendSimple("stop", "failed to stop recording"),
	}
}

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <id>",
		Short: "Play a recording (stops whatever is playing)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand("play " + args[0])
			if err != nil {
				return fmt.Errorf("failed to play recording: %w", err)
			}
			fmt.Println(resp)
			return nil
		},
	}
}

func toggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Pause or resume playback",
		RunE:  sendSimple("toggle", "failed to toggle playback"),
	}
}

func haltCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "halt",
		Short: "Stop playback and clear all progress",
		RunE:  sendSimple("halt", "failed to stop playback"),
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recordings with transcriptions and progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand("list")
			if err != nil {
				return fmt.Errorf("failed to list recordings: %w", err)
			}

			payload, ok := strings.CutPrefix(resp, "DATA ")
			if !ok {
				return fmt.Errorf("unexpected daemon response: %s", resp)
			}

			var snap store.Snapshot
			if err := json.Unmarshal([]byte(payload), &snap); err != nil {
				return fmt.Errorf("failed to decode daemon response: %w", err)
			}

			fmt.Println(tui.RenderList(snap))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show capture and playback status",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := bus.SendCommand("list")
			if err != nil {
				return fmt.Errorf("failed to get status: %w", err)
			}

			payload, ok := strings.CutPrefix(resp, "DATA ")
			if !ok {
				return fmt.Errorf("unexpected daemon response: %s", resp)
			}

			var snap store.Snapshot
			if err := json.Unmarshal([]byte(payload), &snap); err != nil {
				return fmt.Errorf("failed to decode daemon response: %w", err)
			}

			fmt.Println(tui.RenderStatus(snap))
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Get protocol version",
		RunE:  sendSimple("version", "failed to get version"),
	}
}

func stopDaemonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop-daemon",
		Short: "Stop the daemon",
		RunE:  sendSimple("quit", "failed to stop daemon"),
	}
}

func sendSimple(command, failMsg string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resp, err := bus.SendCommand(command)
		if err != nil {
			return fmt.Errorf("%s: %w", failMsg, err)
		}
		fmt.Println(resp)
		return nil
	}
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for voicepad.
This will guide you through setting up:
- The transcription provider and API key (OpenAI, Groq)
- Model and language hint
- Notification preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}

	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Println()

	configPath, _ := config.GetConfigPath()
	fmt.Printf("Config file location: %s\n", configPath)
	fmt.Println("Restart the daemon or let it hot-reload to apply changes.")
	return nil
}
