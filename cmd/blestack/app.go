package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/blestack/internal/catalog"
	"github.com/danmuck/blestack/internal/config"
	"github.com/danmuck/blestack/internal/observability"
	"github.com/danmuck/blestack/internal/render"
	"github.com/danmuck/blestack/internal/server"
	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

var (
	flgCatalog = cli.StringFlag{Name: "catalog, c", Usage: "load the layer catalog from a TOML file instead of the built-in one"}
	flgNoColor = cli.BoolFlag{Name: "no-color", Usage: "disable colored output"}
	flgConfig  = cli.StringFlag{Name: "config", Usage: "blestackd config file"}
	flgAddr    = cli.StringFlag{Name: "addr, a", Usage: "listen address (overrides config)"}
	flgForce   = cli.BoolFlag{Name: "force, f", Usage: "overwrite an existing file"}
)

func newApp(in io.Reader, out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "blestack"
	app.Usage = "Explore the Bluetooth Low Energy protocol stack"
	app.Version = server.Version
	app.Writer = out
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{flgCatalog, flgNoColor}
	app.Commands = []cli.Command{
		{
			Name:    "layers",
			Aliases: []string{"ls"},
			Usage:   "List the stack, top layer first",
			Action:  cmdLayers,
		},
		{
			Name:      "layer",
			Usage:     "Show one layer in detail",
			ArgsUsage: "<id>",
			Action:    cmdLayer,
		},
		{
			Name:   "packets",
			Usage:  "Show the packet structure of every layer",
			Action: cmdPackets,
		},
		{
			Name:    "explore",
			Aliases: []string{"x"},
			Usage:   "Drill into packets interactively",
			Action: func(c *cli.Context) error {
				return cmdExplore(c, in)
			},
		},
		{
			Name:  "catalog",
			Usage: "Validate or export layer catalogs",
			Subcommands: []cli.Command{
				{
					Name:      "check",
					Usage:     "Validate a catalog file",
					ArgsUsage: "<file>",
					Action:    cmdCatalogCheck,
				},
				{
					Name:   "export",
					Usage:  "Write the active catalog as TOML",
					Action: cmdCatalogExport,
				},
			},
		},
		{
			Name:   "serve",
			Usage:  "Serve the HTTP and websocket API",
			Flags:  []cli.Flag{flgConfig, flgAddr},
			Action: cmdServe,
		},
		{
			Name:  "config",
			Usage: "Manage blestackd config files",
			Subcommands: []cli.Command{
				{
					Name:      "init",
					Usage:     "Write a config template",
					ArgsUsage: "<file>",
					Flags:     []cli.Flag{flgForce},
					Action:    cmdConfigInit,
				},
			},
		},
	}
	return app
}

// loadCatalog resolves the global --catalog flag.
func loadCatalog(c *cli.Context) (*catalog.Catalog, error) {
	path := c.GlobalString("catalog")
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func newRenderer(c *cli.Context) *render.Renderer {
	return render.New(c.App.Writer, !color.NoColor && !c.GlobalBool("no-color"))
}

func cmdLayers(c *cli.Context) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	newRenderer(c).Overview(cat, "")
	return nil
}

func cmdLayer(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("layer: expected one layer id, one of %s", knownIDs())
	}
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	id, err := catalog.ParseLayerID(c.Args().First())
	if err != nil {
		return err
	}
	layer, ok := cat.Layer(id)
	if !ok {
		return fmt.Errorf("%w: %s is not in this catalog", catalog.ErrUnknownLayer, id)
	}
	newRenderer(c).Layer(layer)
	return nil
}

func cmdPackets(c *cli.Context) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	newRenderer(c).Packets(cat)
	return nil
}

func cmdExplore(c *cli.Context, in io.Reader) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	return newREPL(in, c.App.Writer, cat, newRenderer(c)).Run()
}

func cmdCatalogCheck(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("catalog check: expected one file")
	}
	path := c.Args().First()
	cat, err := catalog.Load(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: ok (layers=%d root=%s depth=%d)\n", path, cat.Len(), cat.Root(), cat.Depth())
	return nil
}

func cmdCatalogExport(c *cli.Context) error {
	cat, err := loadCatalog(c)
	if err != nil {
		return err
	}
	return errors.Wrap(catalog.Export(c.App.Writer, cat), "export catalog")
}

func cmdServe(c *cli.Context) error {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadServerConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
		log.Info().Str("path", path).Msg("loaded server config")
	}
	if addr := c.String("addr"); addr != "" {
		cfg.Addr = addr
	}
	if path := c.GlobalString("catalog"); path != "" {
		cfg.CatalogPath = path
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return err
	}
	observability.InitLogger("blestack")
	gin.SetMode(gin.ReleaseMode)
	return server.Appear(cfg, cat).Serve()
}

func cmdConfigInit(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("config init: expected one file")
	}
	path := c.Args().First()
	if err := config.WriteTemplate(path, "server", c.Bool("force")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "wrote server config template to %s\n", path)
	return nil
}

func knownIDs() string {
	ids := catalog.KnownLayerIDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
