package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"stock-watcher-go/internal/app"
	"stock-watcher-go/internal/container"
	"stock-watcher-go/watchlist"
)

func main() {
	cfgPath := flag.String("config", "", "配置文件路径，留空用缺省配置")
	flag.Parse()

	c, err := container.New(*cfgPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	if err := c.Build(); err != nil {
		log.Fatalf("构建失败: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		log.Fatalf("启动失败: %v", err)
	}
	defer c.Stop()

	a := c.App()
	a.RefreshNow()

	tick := time.Duration(c.Config().Refresh.TickMs) * time.Millisecond
	if tick <= 0 {
		tick = time.Second
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	commands := make(chan string)
	go readCommands(commands)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("commands: add <code> | del <n> | up <n> | down <n> | ls | r | q")
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			if a.Tick() {
				render(a.Items(), a.LastRefresh(), a.LastError())
			}
		case line, ok := <-commands:
			if !ok {
				return
			}
			if !dispatch(a, line) {
				return
			}
		}
	}
}

func readCommands(out chan<- string) {
	defer close(out)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			out <- line
		}
	}
}

// dispatch 执行一条命令，返回 false 表示退出。
func dispatch(a *app.App, line string) bool {
	fields := strings.Fields(line)
	cmd, arg := fields[0], ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch cmd {
	case "q", "quit", "exit":
		return false
	case "add":
		if arg == "" {
			fmt.Println("usage: add <code>")
			return true
		}
		if err := a.Add(arg); err != nil {
			fmt.Printf("add failed: %v\n", err)
		}
	case "del", "rm":
		if idx, ok := parseIndex(cmd, arg); ok {
			a.Delete(idx)
		}
	case "up":
		if idx, ok := parseIndex(cmd, arg); ok {
			a.MoveUp(idx)
		}
	case "down":
		if idx, ok := parseIndex(cmd, arg); ok {
			a.MoveDown(idx)
		}
	case "r", "refresh":
		if !a.RefreshNow() {
			fmt.Println("refresh already in flight")
		}
	case "ls", "list":
		render(a.Items(), a.LastRefresh(), a.LastError())
	default:
		fmt.Printf("unknown command: %s\n", cmd)
	}
	return true
}

func parseIndex(cmd, arg string) (int, bool) {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Printf("usage: %s <index>\n", cmd)
		return 0, false
	}
	return idx, true
}

func render(items []watchlist.Instrument, lastRefresh time.Time, lastError string) {
	if lastError != "" {
		fmt.Printf("! %s\n", lastError)
	}
	if !lastRefresh.IsZero() {
		fmt.Printf("as of %s\n", lastRefresh.Format("15:04:05"))
	}
	for i, it := range items {
		if it.Display == nil || !it.Display.HasData {
			fmt.Printf("%2d  %-12s %-10s        -       -\n", i, it.UserCode, it.Name)
			continue
		}
		d := it.Display
		name := d.Name
		if name == "" {
			name = it.Name
		}
		fmt.Printf("%2d  %-12s %-10s %9.3f %+7.2f%%\n", i, it.UserCode, name, d.Price, d.Percent)
	}
}
