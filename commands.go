package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/aschmelyun/vnote/internal/config"
	"github.com/aschmelyun/vnote/internal/media"
	"github.com/aschmelyun/vnote/internal/notes"
	"github.com/aschmelyun/vnote/internal/session"
	"github.com/aschmelyun/vnote/internal/tui"
	"github.com/aschmelyun/vnote/internal/vault"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// isTerminal reports whether the UI has a terminal to draw on.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vnote [document]",
		Short:         "Take timestamped notes alongside audio and video",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Open a document, creating an untitled one when none is given
  vnote talks/keynote.vnote

  # Start a document for a recording
  vnote new talks --media talks/keynote.mp4

  # Write the notes of a document as WebVTT subtitles
  vnote export talks/keynote.vnote
`),
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd, args)
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", envOr("VNOTE_CONFIG", config.DefaultPath()), "Path to config file")
	cmd.PersistentFlags().StringVar(&a.vaultPath, "vault", envOr("VNOTE_VAULT", ""), "Vault directory (overrides vault.path)")

	cmd.AddCommand(newNewCmd(a))
	cmd.AddCommand(newLsCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newImportCmd(a))
	cmd.AddCommand(newVersionCmd(a))
	return cmd
}

func (a *app) setup() error {
	cfg := config.NewDefaultConfig()
	if err := config.LoadOrDefault(a.configPath, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if a.vaultPath != "" {
		cfg.Vault.Path = a.vaultPath
	}

	logger, closer, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	store, err := vault.NewFS(cfg.Vault.Path)
	if err != nil {
		_ = closer.Close()
		return err
	}

	a.cfg = cfg
	a.store = store
	a.logger = logger
	a.logFile = closer
	slog.SetDefault(logger)
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}

// open loads a document without a player; commands that only read or
// rewrite notes have no clock.
func (a *app) open(ctx context.Context, arg string) (*session.Session, error) {
	p, err := docPath(a.store, arg)
	if err != nil {
		return nil, err
	}
	return session.Open(ctx, a.store, p, nil, a.logger)
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("vnote needs an interactive terminal; see vnote --help for the other commands")
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var p string
	var err error
	if len(args) == 1 {
		p, err = docPath(a.store, args[0])
	} else {
		p, err = session.CreateUntitled(a.store, "")
	}
	if err != nil {
		return err
	}

	deck := &media.Deck{}
	defer func() {
		if err := deck.Close(); err != nil {
			a.logger.Warn("close player", slog.String("error", err.Error()))
		}
	}()

	sess, err := session.Open(ctx, a.store, p, deck, a.logger)
	if err != nil {
		return err
	}
	abs, err := a.store.Abs(p)
	if err != nil {
		return err
	}

	prog := tui.NewProgram(tui.Options{
		Context: ctx,
		Session: sess,
		Store:   a.store,
		Deck:    deck,
		Player:  a.cfg.Player,
		UI:      a.cfg.UI,
		Logger:  a.logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		_, err := prog.Run()
		return err
	})
	g.Go(func() error {
		return vault.Watch(gctx, abs, a.logger, func() {
			prog.Send(tui.FileChangedMsg{})
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), title()+"\n"+styleOutput([]string{
		fmt.Sprintf("Saved %d notes to %s", len(sess.Document().Notes), p),
	}))
	return nil
}

func newNewCmd(a *app) *cobra.Command {
	var mediaPath string
	cmd := &cobra.Command{
		Use:   "new [dir]",
		Short: "Create an untitled document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				rel, err := a.store.Rel(args[0])
				if err != nil {
					return err
				}
				dir = rel
			}
			p, err := session.CreateUntitled(a.store, dir)
			if err != nil {
				return err
			}
			statuses := []string{"Created " + p}

			if mediaPath != "" {
				rel, err := a.store.Rel(mediaPath)
				if err != nil {
					return err
				}
				sess, err := session.Open(cmd.Context(), a.store, p, nil, a.logger)
				if err != nil {
					return err
				}
				if err := sess.SetMediaPath(cmd.Context(), rel); err != nil {
					return err
				}
				statuses = append(statuses, "Media set to "+rel)
				if _, notice := sess.ResolveMedia(); notice != nil {
					statuses = append(statuses, WarnStyle.Render(notice.Message))
				}
			}

			fmt.Fprint(cmd.OutOrStdout(), title()+"\n"+styleOutput(statuses))
			return nil
		},
	}
	cmd.Flags().StringVar(&mediaPath, "media", "", "Media file the notes refer to")
	return cmd
}

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List the documents in the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := listDocuments(a.store, a.logger)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, title())
			if len(entries) == 0 {
				fmt.Fprint(out, styleOutput([]string{"No documents in " + a.store.Root()}))
				return nil
			}
			for i, e := range entries {
				bullet := "├"
				if i == len(entries)-1 {
					bullet = "└"
				}
				detail := fmt.Sprintf("  %d notes", e.notes)
				if e.media != "" {
					detail += "  " + e.media
				}
				fmt.Fprintln(out, BulletStyle.Render(bullet)+TextStyle.Render(e.path)+DimTextStyle.Render(detail))
			}
			return nil
		},
	}
}

// listDocuments reads every document in the vault. Unreadable ones are
// logged and skipped.
func listDocuments(store vault.Storage, logger *slog.Logger) ([]docEntry, error) {
	files, err := store.ListFiles()
	if err != nil {
		return nil, err
	}
	var entries []docEntry
	for _, f := range files {
		if path.Ext(f) != session.Ext {
			continue
		}
		data, err := store.Read(f)
		if err != nil {
			logger.Warn("ls: read", slog.String("path", f), slog.String("error", err.Error()))
			continue
		}
		doc, err := notes.Decode(data)
		if err != nil {
			logger.Warn("ls: decode", slog.String("path", f), slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, docEntry{path: f, media: doc.MediaPath, notes: len(doc.Notes)})
	}
	return entries, nil
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <document>",
		Short: "Write a document's notes as WebVTT next to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out, err := sess.ExportVTT(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), title()+"\n"+styleOutput([]string{
				fmt.Sprintf("Exported %d notes to %s", len(sess.Document().Notes), out),
			}))
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.vtt> <document>",
		Short: "Add the cues of a WebVTT file to a document as notes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			sess, err := a.open(cmd.Context(), args[1])
			if err != nil {
				return err
			}
			n, err := sess.ImportVTT(cmd.Context(), string(content))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), title()+"\n"+styleOutput([]string{
				fmt.Sprintf("Imported %d notes into %s", n, sess.Path()),
			}))
			return nil
		},
	}
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info and external requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, title())
			fmt.Fprintln(out, BulletStyle.Render("├")+TextStyle.Render(VERSION))
			fmt.Fprintln(out, BulletStyle.Render("│"))
			fmt.Fprintln(out, BulletStyle.Render("├")+TextStyle.Render("Requirements:"))
			for _, line := range requirements(a.cfg) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, BulletStyle.Render("│"))
			fmt.Fprintln(out, BulletStyle.Render("└")+TextStyle.Render("Supported formats:")+
				DimTextStyle.Render(" ."+strings.Join(media.ValidExtensions, ", .")))
			return nil
		},
	}
}
