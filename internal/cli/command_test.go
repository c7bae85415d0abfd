package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func TestCreateRootCommand(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	// Test basic command properties
	if !strings.HasPrefix(cmd.Use, "vocabtts") {
		t.Errorf("Expected Use to start with 'vocabtts', got %s", cmd.Use)
	}

	if !strings.Contains(cmd.Short, "speech") {
		t.Errorf("Expected Short description to mention speech, got %q", cmd.Short)
	}

	// Test that flags are set up
	flagTests := []string{
		"config", "verbose", "file", "string", "language", "language1", "language2",
		"encoding", "newline-delimiter", "word-delimiter", "output", "table",
		"archive", "list-models", "provider", "fallback", "endpoint", "timeout",
		"interval", "max-failures", "openai-model", "openai-voice", "openai-speed",
	}

	for _, name := range flagTests {
		t.Run("flag_"+name, func(t *testing.T) {
			var flag *pflag.Flag
			if name == "config" || name == "verbose" {
				flag = cmd.PersistentFlags().Lookup(name)
			} else {
				flag = cmd.Flags().Lookup(name)
			}
			if flag == nil {
				t.Errorf("Expected flag %s to exist", name)
			}
		})
	}
}

func TestSetupFlags(t *testing.T) {
	cmd := &cobra.Command{}
	flags := NewFlags()

	setupFlags(cmd, flags)

	defaults := map[string]string{
		"language":          "en",
		"encoding":          "utf-8",
		"newline-delimiter": `\n`,
		"word-delimiter":    ",",
		"output":            ".",
		"table":             "out.csv",
		"provider":          "google",
		"timeout":           "30s",
		"interval":          "500ms",
		"max-failures":      "0",
	}

	for name, want := range defaults {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			t.Fatalf("%s flag not found", name)
		}
		if flag.DefValue != want {
			t.Errorf("Expected default %s to be %q, got %q", name, want, flag.DefValue)
		}
	}

	shorthands := map[string]string{"l": "language", "e": "encoding", "f": "file", "s": "string", "o": "output"}
	for short, name := range shorthands {
		flag := cmd.Flags().ShorthandLookup(short)
		if flag == nil || flag.Name != name {
			t.Errorf("Expected -%s to be the shorthand of --%s", short, name)
		}
	}
}

func TestFileAndStringAreExclusive(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	cmd.RunE = func(cmd *cobra.Command, args []string) error { return nil }
	cmd.SetArgs([]string{"-f", "words.txt", "-s", "hello"})
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	if err := cmd.Execute(); err == nil {
		t.Error("Expected error when --file and --string are combined")
	}
}

func TestStringJoinsPositionalWords(t *testing.T) {
	flags := NewFlags()
	cmd := CreateRootCommand(flags)

	var text string
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		text = flags.Text(args)
		return nil
	}
	cmd.SetArgs([]string{"-s", "hello", "world"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if text != "hello world" {
		t.Errorf("Text() = %q, want %q", text, "hello world")
	}
}

func TestInitConfig(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		cfgFile   string
		setupFunc func(t *testing.T) string
		wantLang  string
	}{
		{
			name:    "with config file",
			cfgFile: "test-config.yaml",
			setupFunc: func(t *testing.T) string {
				tmpDir := t.TempDir()
				cfgPath := filepath.Join(tmpDir, "test-config.yaml")
				content := `language: ru
audio:
  provider: htgotts
  openai_key: test-key
output:
  directory: /test/output`
				err := os.WriteFile(cfgPath, []byte(content), 0644)
				if err != nil {
					t.Fatalf("Failed to create test config: %v", err)
				}
				return cfgPath
			},
			wantLang: "ru",
		},
		{
			name:    "without config file",
			cfgFile: "",
			setupFunc: func(t *testing.T) string {
				return ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper for each test
			viper.Reset()

			cfgPath := tt.setupFunc(t)
			if tt.cfgFile != "" && cfgPath != "" {
				tt.cfgFile = cfgPath
			}

			InitConfig(tt.cfgFile)

			if tt.wantLang != "" && viper.GetString("language") != tt.wantLang {
				t.Errorf("language = %q, want %q", viper.GetString("language"), tt.wantLang)
			}

			// Test environment variable prefix
			os.Setenv("VOCABTTS_TEST_VAR", "test-value")
			defer os.Unsetenv("VOCABTTS_TEST_VAR")

			if viper.GetString("test_var") != "test-value" {
				t.Error("Environment variable not properly loaded")
			}

			// Nested keys map to underscores
			os.Setenv("VOCABTTS_AUDIO_ENDPOINT", "http://localhost/tts")
			defer os.Unsetenv("VOCABTTS_AUDIO_ENDPOINT")

			if viper.GetString("audio.endpoint") != "http://localhost/tts" {
				t.Error("Nested environment variable not properly loaded")
			}
		})
	}
}

func TestLoadSettings(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	viper.Reset()

	flags := NewFlags()
	cmd := CreateRootCommand(flags)
	if err := cmd.Flags().Set("language", "ru"); err != nil {
		t.Fatal(err)
	}

	// Values from outside the command line fill in the flags that were not given
	viper.Set("audio.provider", "htgotts")
	viper.Set("audio.interval", "2s")
	viper.Set("audio.max_failures", 3)

	LoadSettings(flags)

	if flags.Language != "ru" {
		t.Errorf("Language = %q, want ru", flags.Language)
	}
	if flags.Provider != "htgotts" {
		t.Errorf("Provider = %q, want htgotts", flags.Provider)
	}
	if flags.Interval != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", flags.Interval)
	}
	if flags.MaxFailures != 3 {
		t.Errorf("MaxFailures = %d, want 3", flags.MaxFailures)
	}
	if flags.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want default utf-8", flags.Encoding)
	}
	if flags.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", flags.Timeout)
	}
}

func TestGetOpenAIKey(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	tests := []struct {
		name      string
		envKey    string
		configKey string
		expected  string
	}{
		{
			name:      "from environment",
			envKey:    "env-test-key",
			configKey: "config-test-key",
			expected:  "env-test-key",
		},
		{
			name:      "from config when no env",
			envKey:    "",
			configKey: "config-test-key",
			expected:  "config-test-key",
		},
		{
			name:      "empty when neither set",
			envKey:    "",
			configKey: "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper
			viper.Reset()

			// Set up environment
			if tt.envKey != "" {
				os.Setenv("OPENAI_API_KEY", tt.envKey)
				defer os.Unsetenv("OPENAI_API_KEY")
			} else {
				os.Unsetenv("OPENAI_API_KEY")
			}

			// Set up config
			if tt.configKey != "" {
				viper.Set("audio.openai_key", tt.configKey)
			}

			got := GetOpenAIKey()
			if got != tt.expected {
				t.Errorf("GetOpenAIKey() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBindFlagsToViper(t *testing.T) {
	// Save original viper state
	originalConfig := viper.New()
	*originalConfig = *viper.GetViper()
	defer func() {
		*viper.GetViper() = *originalConfig
	}()

	// Reset viper
	viper.Reset()

	cmd := &cobra.Command{}
	flags := NewFlags()
	setupFlags(cmd, flags)

	// Set some flag values
	cmd.Flags().Set("output", "/test/output")
	cmd.Flags().Set("word-delimiter", ";")
	cmd.Flags().Set("openai-model", "tts-1-hd")

	bindFlagsToViper(cmd)

	// Test that values are bound
	if viper.GetString("output.directory") != "/test/output" {
		t.Errorf("Expected output.directory to be /test/output, got %s", viper.GetString("output.directory"))
	}

	if viper.GetString("word_delimiter") != ";" {
		t.Errorf("Expected word_delimiter to be ;, got %s", viper.GetString("word_delimiter"))
	}

	if viper.GetString("audio.openai_model") != "tts-1-hd" {
		t.Errorf("Expected audio.openai_model to be tts-1-hd, got %s", viper.GetString("audio.openai_model"))
	}
}
