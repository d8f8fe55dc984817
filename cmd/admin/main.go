package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"resumeSync/internal/config"
	"resumeSync/internal/engine"
	"resumeSync/internal/resume"
	"resumeSync/internal/storage"
)

// admin 用于在不启动页面的情况下查看或重置已保存的表单状态。
func main() {
	var (
		show       = flag.Bool("show", false, "打印已保存的表单快照与主题")
		reset      = flag.Bool("reset", false, "删除已保存的表单快照")
		theme      = flag.String("theme", "", "写入保存的主题（modern|classic）")
		driver     = flag.String("driver", "", "存储驱动（可选，默认读 STORAGE_DRIVER）")
		sqlitePath = flag.String("sqlite-path", "", "SQLite 文件路径（可选，默认读 SQLITE_PATH）")
	)
	flag.Parse()

	if !*show && !*reset && strings.TrimSpace(*theme) == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if d := strings.TrimSpace(*driver); d != "" {
		cfg.Storage.Driver = strings.ToLower(d)
	}
	if p := strings.TrimSpace(*sqlitePath); p != "" {
		cfg.Database.SQLitePath = p
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, slog.Default())
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	if name := strings.TrimSpace(*theme); name != "" {
		t, ok := resume.ParseTheme(name)
		if !ok {
			log.Fatalf("unknown theme %q", name)
		}
		state := engine.State{Theme: t}
		if err := state.SaveTheme(ctx, store); err != nil {
			log.Fatalf("save theme: %v", err)
		}
		fmt.Printf("主题已设置为 %s\n", t)
	}

	if *reset {
		if err := store.Delete(ctx, engine.SnapshotKey); err != nil {
			log.Fatalf("delete snapshot: %v", err)
		}
		fmt.Println("已删除保存的表单快照")
	}

	if *show {
		if err := printState(ctx, store); err != nil {
			log.Fatalf("show state: %v", err)
		}
	}
}

func printState(ctx context.Context, store engine.Store) error {
	theme, err := engine.LoadTheme(ctx, store)
	if err != nil {
		fmt.Printf("主题: %s（保存值无效: %v）\n", theme, err)
	} else {
		fmt.Printf("主题: %s\n", theme)
	}

	snap, ok, err := engine.LoadSnapshot(ctx, store)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("快照: 无")
		return nil
	}

	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Printf("%-12s %q\n", id, snap[resume.InputID(id)])
	}
	return nil
}
