package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/voicepad/voicepad/internal/config"
)

// ConfigureResult holds the configuration result from the wizard
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// providerDisplayNames maps provider IDs to human-readable names
var providerDisplayNames = map[string]string{
	"openai": "OpenAI",
	"groq":   "Groq",
}

// Run starts the configuration wizard over an existing (or default) config.
func Run(cfg *config.Config) (*ConfigureResult, error) {
	clearScreen()
	fmt.Println(Logo())
	fmt.Println()

	provider := cfg.Transcription.Provider
	model := cfg.Transcription.Model
	language := cfg.Transcription.Language
	notifications := cfg.NotifierType()

	apiKey := cfg.APIKey()
	if apiKey == "your-api-key" {
		apiKey = ""
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Transcription provider").
				Description("Which service transcribes your recordings").
				Options(
					huh.NewOption(providerDisplayNames["openai"], "openai"),
					huh.NewOption(providerDisplayNames["groq"], "groq"),
				).
				Value(&provider),

			huh.NewInput().
				Title("API key").
				Description("Leave empty to keep transcription disabled").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),

			huh.NewInput().
				Title("Model").
				Description("Transcription model (e.g. whisper-1)").
				Value(&model),

			huh.NewInput().
				Title("Language hint").
				Description("Two-letter code, e.g. en, it, de").
				Value(&language),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Notifications").
				Options(
					huh.NewOption("Desktop (notify-send)", "desktop"),
					huh.NewOption("Daemon log only", "log"),
					huh.NewOption("None", "none"),
				).
				Value(&notifications),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return &ConfigureResult{Cancelled: true}, nil
		}
		return nil, err
	}

	cfg.Transcription.Provider = provider
	cfg.Transcription.Model = model
	cfg.Transcription.Language = language
	cfg.Notifications.Enabled = notifications != "none"
	cfg.Notifications.Type = notifications

	if cfg.Providers == nil {
		cfg.Providers = make(map[string]config.ProviderConfig)
	}
	if apiKey != "" {
		cfg.Providers[provider] = config.ProviderConfig{APIKey: apiKey}
	}

	return &ConfigureResult{Config: cfg}, nil
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
