// Command savetool operates on the clicker save database: inspect,
// export, import, backup, restore, and delete.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/michaelhills23/corgi-clicker/internal/config"
	"github.com/michaelhills23/corgi-clicker/internal/progression"
	"github.com/michaelhills23/corgi-clicker/internal/save"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: savetool <command> [args]

commands:
  info               show save age, schema version and progression summary
  export [file]      write the save blob to a file (default: generated name)
  import <file>      replace the save with a previously exported blob
  backup             copy the save to the backup slot
  restore            roll the save back to the backup slot
  delete             remove the save and its backup

The database path comes from CLICKER_DB_PATH (default data/clicker.db).`)
	os.Exit(2)
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("configuration failed", err)
	}

	saves, err := save.Open(cfg.DBPath)
	if err != nil {
		fatal("open save database", err)
	}
	defer saves.Close()

	switch os.Args[1] {
	case "info":
		info(saves)
	case "export":
		export(saves, os.Args[2:])
	case "import":
		if len(os.Args) < 3 {
			usage()
		}
		importSave(saves, os.Args[2])
	case "backup":
		ok, err := saves.CreateBackup()
		if err != nil {
			fatal("backup", err)
		}
		if !ok {
			fmt.Println("nothing to back up")
			return
		}
		fmt.Println("backup created")
	case "restore":
		ok, err := saves.RestoreBackup()
		if err != nil {
			fatal("restore", err)
		}
		if !ok {
			fmt.Println("no backup to restore")
			return
		}
		fmt.Println("backup restored")
	case "delete":
		if err := saves.Delete(); err != nil {
			fatal("delete", err)
		}
		fmt.Println("save deleted")
	default:
		usage()
	}
}

func info(saves *save.Store) {
	s, err := saves.Load()
	if err != nil || s == nil {
		fmt.Println("no save found")
		return
	}

	fmt.Printf("schema version:  %d\n", s.SchemaVersion)
	if age, ok := saves.SaveAge(); ok {
		fmt.Printf("last saved:      %s\n", humanize.Time(time.Now().Add(-age)))
	}
	fmt.Printf("level:           %d (%s)\n", s.Level, progression.LevelTitle(s.Level))
	fmt.Printf("currency:        %s\n", humanize.Commaf(s.Currency))
	fmt.Printf("total earned:    %s\n", humanize.Commaf(s.TotalEarned))
	fmt.Printf("total clicks:    %s\n", humanize.Comma(s.TotalClicks))
	fmt.Printf("prestige:        %d (x%.1f)\n", s.PrestigeLevel, s.PrestigeMultiplier)
	fmt.Printf("active corgi:    %s (%q)\n", s.ActiveCorgi, s.CorgiName)
	fmt.Printf("play time:       %s\n", (time.Duration(s.TotalPlayTime) * time.Second).String())
	fmt.Printf("gas produced:    %.3f L\n", s.TotalGasLiters)
	fmt.Printf("cosmetics:       %d owned, %d equipped\n", len(s.UnlockedCosmetics), len(s.EquippedCosmetics))
	fmt.Printf("corgis:          %d unlocked\n", len(s.UnlockedCorgis))
	fmt.Printf("achievements:    %d\n", len(s.Achievements))
}

func export(saves *save.Store, args []string) {
	blob, err := saves.Export()
	if err != nil {
		fatal("export", err)
	}

	path := fmt.Sprintf("corgi-clicker-save-%s.json", uuid.NewString()[:8])
	if len(args) > 0 {
		path = args[0]
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		fatal("write export", err)
	}
	fmt.Printf("exported save to %s\n", path)
}

func importSave(saves *save.Store, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		fatal("read import file", err)
	}
	if err := saves.Import(raw); err != nil {
		fatal("import", err)
	}
	fmt.Println("save imported")
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "savetool: %s: %v\n", what, err)
	os.Exit(1)
}
