package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/vocabtts/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vocabtts [-f FILE | -s WORD...]",
		Short: "Word list to speech converter",
		Long: `vocabtts converts words and phrases into mp3 files using a
text-to-speech endpoint, one request per line.

A bilingual word list ("hello, привет" per line) is split into pairs,
written to a tab separated vocabulary table, and only the words of the
selected language are spoken.

Examples:
  vocabtts -s hello world                         # Creates "hello world.mp3"
  vocabtts -f words.txt                           # One mp3 per line
  vocabtts -f words.txt -l ru --language1 en --language2 ru
  vocabtts -f words.txt -e windows-1251 --word-delimiter '\t'`,
		Args:          cobra.ArbitraryArgs,
		Version:       internal.Version,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.vocabtts.yaml)")
	cmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Log every request")

	// Input flags
	cmd.Flags().StringVarP(&flags.InputFile, "file", "f", "", "File to read words from")
	cmd.Flags().StringVarP(&flags.InputText, "string", "s", "", "Text to convert, remaining arguments are appended")
	cmd.MarkFlagsMutuallyExclusive("file", "string")

	// Text flags
	cmd.Flags().StringVarP(&flags.Language, "language", "l", flags.Language, `Language to generate speech for (e.g. "en")`)
	cmd.Flags().StringVar(&flags.Language1, "language1", "", "Language of the first column (default: --language)")
	cmd.Flags().StringVar(&flags.Language2, "language2", "", "Language of the second column, enables word pairs")
	cmd.Flags().StringVarP(&flags.Encoding, "encoding", "e", flags.Encoding, `Encoding of the input text (e.g. "utf-8", "windows-1251")`)
	cmd.Flags().StringVar(&flags.NewlineDelimiter, "newline-delimiter", flags.NewlineDelimiter, "Separator between records")
	cmd.Flags().StringVar(&flags.WordDelimiter, "word-delimiter", flags.WordDelimiter, "Separator between the words of a pair")

	// Output flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Output directory")
	cmd.Flags().StringVar(&flags.TableFile, "table", flags.TableFile, "Vocabulary table file, relative to the output directory")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move earlier mp3 files and the table into an archive directory first")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI TTS models for the current API key")

	// Audio flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Speech provider: google, htgotts, openai")
	cmd.Flags().StringVar(&flags.Fallback, "fallback", "", "Provider to use when the primary one fails")
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", flags.Endpoint, "Speech endpoint of the google provider")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", flags.Timeout, "Timeout of a single request")
	cmd.Flags().DurationVar(&flags.Interval, "interval", flags.Interval, "Minimum delay between requests of a batch")
	cmd.Flags().Uint32Var(&flags.MaxFailures, "max-failures", 0, "Stop calling the provider after this many consecutive failures (0 disables)")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().StringVar(&flags.OpenAIVoice, "openai-voice", flags.OpenAIVoice, "OpenAI voice: alloy, ash, ballad, coral, echo, fable, onyx, nova, sage, shimmer, verse")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("language", cmd.Flags().Lookup("language"))
	viper.BindPFlag("language1", cmd.Flags().Lookup("language1"))
	viper.BindPFlag("language2", cmd.Flags().Lookup("language2"))
	viper.BindPFlag("encoding", cmd.Flags().Lookup("encoding"))
	viper.BindPFlag("newline_delimiter", cmd.Flags().Lookup("newline-delimiter"))
	viper.BindPFlag("word_delimiter", cmd.Flags().Lookup("word-delimiter"))
	viper.BindPFlag("output.directory", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.table", cmd.Flags().Lookup("table"))
	viper.BindPFlag("audio.provider", cmd.Flags().Lookup("provider"))
	viper.BindPFlag("audio.fallback", cmd.Flags().Lookup("fallback"))
	viper.BindPFlag("audio.endpoint", cmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("audio.timeout", cmd.Flags().Lookup("timeout"))
	viper.BindPFlag("audio.interval", cmd.Flags().Lookup("interval"))
	viper.BindPFlag("audio.max_failures", cmd.Flags().Lookup("max-failures"))
	viper.BindPFlag("audio.openai_model", cmd.Flags().Lookup("openai-model"))
	viper.BindPFlag("audio.openai_voice", cmd.Flags().Lookup("openai-voice"))
	viper.BindPFlag("audio.openai_speed", cmd.Flags().Lookup("openai-speed"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".vocabtts" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".vocabtts")
	}

	// Environment variables, e.g. VOCABTTS_AUDIO_PROVIDER
	viper.SetEnvPrefix("VOCABTTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// LoadSettings copies the effective configuration back into flags. Values
// given on the command line win over the environment, which wins over the
// config file.
func LoadSettings(flags *Flags) {
	flags.Language = viper.GetString("language")
	flags.Language1 = viper.GetString("language1")
	flags.Language2 = viper.GetString("language2")
	flags.Encoding = viper.GetString("encoding")
	flags.NewlineDelimiter = viper.GetString("newline_delimiter")
	flags.WordDelimiter = viper.GetString("word_delimiter")
	flags.OutputDir = viper.GetString("output.directory")
	flags.TableFile = viper.GetString("output.table")
	flags.Provider = viper.GetString("audio.provider")
	flags.Fallback = viper.GetString("audio.fallback")
	flags.Endpoint = viper.GetString("audio.endpoint")
	flags.Timeout = viper.GetDuration("audio.timeout")
	flags.Interval = viper.GetDuration("audio.interval")
	flags.MaxFailures = viper.GetUint32("audio.max_failures")
	flags.OpenAIModel = viper.GetString("audio.openai_model")
	flags.OpenAIVoice = viper.GetString("audio.openai_voice")
	flags.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("audio.openai_key")
}
