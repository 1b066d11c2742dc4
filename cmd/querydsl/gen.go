package main

import (
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dongjun6343/query/internal/codegen"
	"github.com/dongjun6343/query/internal/command"
	"github.com/dongjun6343/query/internal/errors"
	"github.com/dongjun6343/query/internal/log"
)

type genOptions struct {
	File   string `flag:"file" short:"f" usage:"Model source file, defaults to $GOFILE when run by go generate"`
	Output string `flag:"output" short:"o" usage:"Output directory relative to the model file, empty generates next to it"`
}

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate query types for the model structs of a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		rootOptionsOf(cmd)
		opts := &genOptions{}
		if err := command.BindOptions(cmd, opts); err != nil {
			return err
		}

		files, err := generate(opts)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Infof("generated %s", f)
		}
		return nil
	},
}

func init() {
	mustBind(genCmd, &genOptions{})
}

func mustBind(cmd *cobra.Command, opts any) {
	if err := command.BindCommand(cmd, opts); err != nil {
		log.Fatalf("bind command error, err: %v", err)
	}
}

func generate(opts *genOptions) ([]string, error) {
	file := opts.File
	if file == "" {
		// 获取go generate传入的参数
		goSourceFile := os.Getenv("GOFILE")
		if goSourceFile == "" {
			return nil, errors.Errorf("source file is not specified")
		}
		dir, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrapf(err, "get cwd")
		}
		file = filepath.Join(dir, goSourceFile)
	}

	model, err := codegen.ParseFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "parse file %s failed", file)
	}
	log.Debugf("parsed %d entities from %s", len(model.Entities), file)

	outDir := filepath.Join(filepath.Dir(file), opts.Output)
	outImport := model.ImportPath
	if opts.Output != "" {
		outImport = path.Join(model.ImportPath, filepath.ToSlash(opts.Output))
	}

	files, err := codegen.NewGenerator(model, outImport).Execute(outDir)
	if err != nil {
		return nil, errors.Wrapf(err, "generate file %s failed", file)
	}
	return files, nil
}
