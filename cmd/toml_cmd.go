package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/dzjyyds666/tq/parse"
	"github.com/dzjyyds666/tq/parse/toml"
	"github.com/dzjyyds666/tq/pkg"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type TomlParams struct {
	Find    string `json:"find"`    // 查找的key，点分路径
	Input   string `json:"input"`   // 输入文件路径
	Output  string `json:"output"`  // 输出文件地址
	Format  string `json:"format"`  // 输出格式 json/yaml
	Verbose bool   `json:"verbose"` // 输出详细日志
}

var params *TomlParams

var tomlCmd = &cobra.Command{
	Use:   "toml",
	Short: "toml parse tools",
	Run:   tomlRun,
}

func init() {
	params = &TomlParams{}
	tomlCmd.Flags().StringVarP(&params.Find, "find", "f", "", "find")
	tomlCmd.Flags().StringVarP(&params.Input, "input", "i", "", "input file path")
	tomlCmd.Flags().StringVarP(&params.Output, "output", "o", "", "output path")
	tomlCmd.Flags().StringVar(&params.Format, "format", "json", "output format: json or yaml")
	tomlCmd.Flags().BoolVarP(&params.Verbose, "verbose", "v", false, "verbose logging")
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !params.Verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger
}

func tomlRun(cmd *cobra.Command, args []string) {
	logger := newLogger()

	if len(params.Input) == 0 {
		logger.Error().Msg("no input file path")
		os.Exit(1)
	}
	exist, err := pkg.CheckFileExist(params.Input)
	if err != nil {
		logger.Error().Err(err).Msg("check file exist error")
		os.Exit(1)
	}
	if !exist {
		logger.Error().Str("path", params.Input).Msg("input file not exist")
		os.Exit(1)
	}

	data, err := pkg.ReadFile(params.Input)
	if err != nil {
		logger.Error().Err(err).Msg("read input file error")
		os.Exit(1)
	}
	logger.Debug().Int("bytes", len(data)).Str("path", params.Input).Msg("read input file")

	root, err := parse.ParseToml(bytes.NewReader(data))
	if err != nil {
		logger.Error().Err(err).Msg("parse toml error")
		os.Exit(1)
	}

	var node toml.Node = root
	if len(params.Find) != 0 {
		found, ok := toml.Get(root, strings.Split(params.Find, ".")...)
		if !ok {
			logger.Error().Str("find", params.Find).Msg("key not found")
			os.Exit(1)
		}
		node = found
	}

	rendered, err := renderNode(node, params.Format)
	if err != nil {
		logger.Error().Err(err).Msg("render error")
		os.Exit(1)
	}

	if len(params.Output) == 0 {
		fmt.Println(string(rendered))
		return
	}
	if err := os.WriteFile(params.Output, rendered, 0o644); err != nil {
		logger.Error().Err(err).Msg("write output file error")
		os.Exit(1)
	}
	logger.Info().Str("path", params.Output).Msg("output written")
}

func renderNode(node toml.Node, format string) ([]byte, error) {
	untyped := toml.ToUntyped(node)
	switch format {
	case "json":
		return json.MarshalIndent(untyped, "", "  ")
	case "yaml":
		return yaml.Marshal(untyped)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}
