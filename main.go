package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/bootstrap"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/config"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/handler"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/logger"
	"github.com/utkarshdeo-collab/GDrive-Vertex-AI-Pipeline/internal/types"
	"go.uber.org/zap"
)

// main is the entry point of the question-routing service
func main() {
	var configFile string
	flag.StringVar(&configFile, "f", "etc/nexus-api.yaml", "the config file")
	flag.Parse()

	defer logger.Sync()

	c := config.MustLoadConfig(configFile)
	if err := c.Validate(); err != nil {
		logger.Error("invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	svcCtx, err := bootstrap.NewServiceContext(&c)
	if err != nil {
		logger.Error("failed to build service context", zap.Error(err))
		os.Exit(1)
	}
	defer svcCtx.Close()

	// HTTP surface runs alongside the interactive loop
	go func() {
		gin.SetMode(gin.ReleaseMode)
		r := gin.New()
		r.Use(gin.Recovery())
		handler.RegisterRoutes(r, svcCtx)

		addr := fmt.Sprintf("%s:%d", c.Host, c.Port)
		logger.Info("starting server", zap.String("addr", addr))
		if err := r.Run(addr); err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	}()

	runInteractive(svcCtx, &c)
}

// runInteractive reads questions from stdin until end-of-input or an exit
// keyword, printing each answer with its priced usage breakdown
func runInteractive(svcCtx *bootstrap.ServiceContext, c *config.Config) {
	fmt.Printf("Question routing assistant (project=%s region=%s model=%s)\n",
		c.Project.ID, c.Project.Region, c.Model.CompletionModel)
	fmt.Println("Type a question, or 'exit' to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("\nYou: ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		result, err := svcCtx.Turn.Process(context.Background(), types.Question{Text: line})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}

		fmt.Printf("\nAssistant: %s\n", result.Answer)
		if rendered := result.Summary.Render(); rendered != "" {
			fmt.Println()
			fmt.Print(rendered)
		}
	}
	fmt.Println("Bye.")
}
