package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/blockworld/pkg/catalog"
)

func main() {
	var (
		base     = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		platform = flag.String("platform", "pc", "platform of the block table")
		ver      = flag.String("version", "1.8", "game version of the block table")
		out      = flag.String("o", "./catalog", "output dir path")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	if *out == "" || *platform == "" || *ver == "" {
		log.Error("output dir, platform and version are required")
		os.Exit(2)
	}

	path := fmt.Sprintf("%s/%s-%s", *out, *platform, *ver)
	if err := os.RemoveAll(path); err != nil {
		log.Error("clear output dir", "path", path, "error", err)
		os.Exit(1)
	}

	log.Info("downloading block table", "path", path)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/1.8
	url := fmt.Sprintf("git::%s//data/%s/%s", *base, *platform, *ver)
	if err := get.Get(path, url); err != nil {
		log.Error("download", "url", url, "error", err)
		os.Exit(1)
	}

	cat, err := catalog.LoadFile(path)
	if err != nil {
		log.Error("downloaded table is not a usable catalog", "error", err)
		os.Exit(1)
	}
	log.Info("done", "path", path, "materials", len(cat.All()))
}
