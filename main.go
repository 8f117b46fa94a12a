package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"KufiCraft/internal/config"
	"KufiCraft/internal/export"
	"KufiCraft/internal/logger"
	lan "KufiCraft/internal/net"
	"KufiCraft/internal/state"
	"KufiCraft/internal/storage"
	"KufiCraft/internal/ui"
)

const (
	discoverTimeout = 3 * time.Second
	// previewSide is the pixel size of the board pushed to preview pages.
	previewSide = 800
)

type flags struct {
	config   string
	name     string
	mono     bool
	restore  bool
	export   string
	out      string
	discover bool
	preview  bool
	write    bool
}

func parseFlags(args []string) (flags, *flag.FlagSet, error) {
	var f flags
	fs := flag.NewFlagSet("kuficraft", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "kuficraft.toml", "path of the TOML config file")
	fs.StringVar(&f.name, "name", "", "board name")
	fs.BoolVar(&f.mono, "mono", false, "use the monospaced grid")
	fs.BoolVar(&f.restore, "restore", false, "open the last saved board")
	fs.StringVar(&f.export, "export", "", "export the saved board as svg, png or pdf and exit")
	fs.StringVar(&f.out, "out", "", "export destination, defaults to the export dir")
	fs.BoolVar(&f.discover, "discover", false, "list live previews on the local network and exit")
	fs.BoolVar(&f.preview, "preview", false, "serve a live preview of the board")
	fs.BoolVar(&f.write, "write-config", false, "write the effective config to the -config path and exit")
	err := fs.Parse(args)
	return f, fs, err
}

// apply lays explicitly set flags over the loaded config.
func (f flags) apply(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			cfg.Board.Name = f.name
		case "mono":
			cfg.Board.Monospaced = f.mono
		case "preview":
			cfg.Preview.Enabled = f.preview
		}
	})
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "kuficraft:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	f, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(f.config)
	if err != nil {
		return err
	}
	f.apply(&cfg, fs)

	logger.Set(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	log := logger.For("main")

	store := storage.NewFileStore(cfg.Storage.Dir)
	switch {
	case f.write:
		if err := config.Write(f.config, cfg); err != nil {
			return err
		}
		log.Info("config written", "path", f.config)
		return nil
	case f.discover:
		return discover()
	case f.export != "":
		return exportSaved(store, cfg, f.export, f.out)
	}

	board, err := openBoard(store, cfg, f.restore)
	if err != nil {
		return err
	}
	log.Info("starting", "board", board.ID, "name", board.Name(), "monospaced", board.Monospaced())

	var share string
	if cfg.Preview.Enabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		share, err = startPreview(ctx, board, cfg)
		if err != nil {
			return err
		}
	}

	ui.RunApp(board, ui.Options{
		Store:       store,
		ExportScale: cfg.Export.Scale,
		ShareURL:    share,
	})
	log.Info("window closed")
	return nil
}

func openBoard(store storage.Store, cfg config.Config, restore bool) (*state.Board, error) {
	opts := state.Options{
		Name:       cfg.Board.Name,
		Monospaced: cfg.Board.Monospaced,
		Size:       cfg.Board.Size,
		Color:      cfg.Board.Color,
		Shape:      state.ShapeKind(cfg.Board.Shape),
	}
	if restore && !store.Exists() {
		logger.For("main").Warn("nothing saved yet, starting a new board")
		restore = false
	}
	var b *state.Board
	if restore {
		rec, err := store.Load()
		if err != nil {
			return nil, err
		}
		b, err = state.Restore(rec.Saved(), opts)
		if err != nil {
			return nil, err
		}
		b.ID = rec.ID
	}
	if b == nil {
		b = state.New(opts)
	}
	b.SetArchDir(cfg.Board.ArchDir)
	return b, nil
}

// startPreview serves the board to browsers on the local network and
// returns the URL to share.
func startPreview(ctx context.Context, b *state.Board, cfg config.Config) (string, error) {
	log := logger.For("main")
	p := lan.NewPreview()
	port := cfg.Preview.Port

	go func() {
		if err := p.Serve(ctx, ":"+strconv.Itoa(port)); err != nil {
			log.Error("preview stopped", "err", err)
		}
	}()

	// Renders are coalesced: a slow peer only ever gets the newest board.
	renders := make(chan []byte, 1)
	go func() {
		for {
			select {
			case svg := <-renders:
				p.Publish(svg)
			case <-ctx.Done():
				return
			}
		}
	}()
	publish := func(s state.Saved) {
		var buf bytes.Buffer
		if err := export.Canvas(&buf, s.Markup, previewSide); err != nil {
			log.Error("render preview", "err", err)
			return
		}
		select {
		case <-renders:
		default:
		}
		renders <- buf.Bytes()
	}
	publish(b.Save())

	next := b.OnChange
	b.OnChange = func(c state.Change) {
		if next != nil {
			next(c)
		}
		if !c.Transient {
			publish(c.Saved)
		}
	}

	if cfg.Preview.Advertise {
		server, err := lan.Advertise(port, b.Name(), b.ID)
		if err != nil {
			log.Warn("mDNS advertising disabled", "err", err)
		} else {
			go func() {
				<-ctx.Done()
				server.Shutdown()
			}()
		}
	}

	share := lan.ShareURL(lan.OutgoingIP(), port)
	log.Info("live preview", "url", share)
	return share, nil
}

func exportSaved(store storage.Store, cfg config.Config, format, out string) error {
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	rec, err := store.Load()
	if err != nil {
		return err
	}
	doc, err := export.FromSaved(rec.Saved())
	if err != nil {
		return err
	}
	if out == "" {
		out = filepath.Join(cfg.Export.Dir, export.FileName(rec.Name, f))
	}
	if err := export.WriteFile(out, f, doc, cfg.Export.Scale); err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func discover() error {
	found := 0
	err := lan.Browse(discoverTimeout, func(s lan.Service) {
		found++
		name := s.Name
		if name == "" {
			name = s.Instance
		}
		fmt.Printf("%s\t%s\n", name, s.URL())
	})
	if err != nil {
		return err
	}
	if found == 0 {
		fmt.Println("no live previews found")
	}
	return nil
}
