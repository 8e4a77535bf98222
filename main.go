package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/xgbutil"
	log "github.com/sirupsen/logrus"

	"github.com/remyoudompheng/dwm/config"
)

const version = "0.3"

func usage() {
	fmt.Fprintln(os.Stderr, "usage: dwm [-v] [-s socket]")
	os.Exit(1)
}

func main() {
	cfg := config.Default()
	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-v":
			fmt.Println("dwm-" + version)
			return
		case "-s":
			i++
			if i == len(args) {
				usage()
			}
			cfg.Socket = args[i]
		default:
			usage()
		}
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		log.Fatalf("cannot open display: %v", err)
	}
	wm := NewWM(xu, cfg)
	must(wm.Init())
	wm.scan()
	if cfg.Socket != "" {
		go func() {
			if err := wm.serveFS(cfg.Socket); err != nil {
				log.Errorf("control filesystem: %v", err)
			}
		}()
	}
	wm.Run()
}
