package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/alecthomas/repr"
	"github.com/urfave/cli/v2"
	"github.com/ztrue/tracerr"

	"github.com/pontaoski/kaleidago/config"
	"github.com/pontaoski/kaleidago/lexer"
	"github.com/pontaoski/kaleidago/reader"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("kaleidago: ")

	app := &cli.App{
		Name:  "kaleidago",
		Usage: "kaleidoscope compiler",
		ExitErrHandler: func(c *cli.Context, err error) {
			if err == nil {
				return
			}
			tracerr.PrintSourceColor(tracerr.Wrap(err))
			os.Exit(1)
		},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "write a project file to the current directory",
				ArgsUsage: "<module>",
				Action: func(c *cli.Context) error {
					name := c.Args().First()
					if name == "" {
						return fmt.Errorf("no module name provided")
					}
					if err := config.Default(name).Write(config.FileName); err != nil {
						return fmt.Errorf("error creating %s: %w", config.FileName, err)
					}
					log.Printf("wrote %s", config.FileName)
					return nil
				},
			},
			{
				Name:      "typeinfo",
				Usage:     "dump the type info of a compiled library",
				ArgsUsage: "<shared object>",
				Action: func(c *cli.Context) error {
					info, err := reader.ReadTypeInfo(c.Args().First())
					if err != nil {
						return err
					}
					repr.Println(info)
					return nil
				},
			},
			{
				Name:      "dump",
				Usage:     "print the tokens or syntax tree of a file",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "tokens",
						Usage: "print tokens instead of the syntax tree",
					},
				},
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if c.Bool("tokens") {
						data, err := ioutil.ReadFile(path)
						if err != nil {
							return err
						}
						for _, tok := range lexer.Tokenize(string(data)) {
							fmt.Printf("%s %s\n", tok.Pos, tok)
						}
						return nil
					}

					file, err := parseFile(path)
					if err != nil {
						return err
					}
					repr.Println(file)
					return nil
				},
			},
			{
				Name:      "build",
				Usage:     "compile a file to an executable",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "output",
						Usage: "path of the linked binary",
					},
					&cli.StringFlag{
						Name:  "config",
						Value: config.FileName,
					},
					&cli.BoolFlag{
						Name:  "dump",
						Usage: "print the IR and stop",
					},
					&cli.BoolFlag{
						Name:  "no-link",
						Usage: "stop after writing the object file",
					},
					&cli.BoolFlag{
						Name:  "typeinfo",
						Usage: "embed type info in the module",
					},
					&cli.BoolFlag{
						Name:  "library",
						Usage: "link a shared object",
					},
				},
				Action: func(c *cli.Context) error {
					input := c.Args().First()
					if input == "" {
						return fmt.Errorf("no input file provided")
					}

					conf, err := config.Load(c.String("config"))
					if err != nil {
						return fmt.Errorf("error reading %s: %w", c.String("config"), err)
					}

					s := settings{
						output:    conf.Output,
						compiler:  conf.Compiler,
						linkFlags: conf.LinkFlags,
						typeInfo:  conf.TypeInfo || c.Bool("typeinfo"),
						library:   c.Bool("library"),
						noLink:    c.Bool("no-link"),
					}
					if c.IsSet("output") {
						s.output = c.String("output")
					}

					if c.Bool("dump") {
						module, err := compile(input, s)
						if err != nil {
							return err
						}
						fmt.Println(module.String())
						return nil
					}

					return build(input, s)
				},
			},
		},
	}

	app.Run(os.Args)
}
