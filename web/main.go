package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/output"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	envFile := flag.String("env", ".env", "Optional .env file with RAYTRACER_* and S3_* settings")
	port := flag.Int("port", 0, "Port to serve on (default from RAYTRACER_PORT or 8080)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Port = *port
	}

	webServer := server.NewServer(cfg.Port, cfg)

	// Saved renders go to S3 when a bucket is configured, else to disk
	if cfg.S3.Enabled() {
		sink, err := output.NewS3Sink(cfg.S3)
		if err != nil {
			log.Printf("Error configuring S3: %v", err)
			os.Exit(1)
		}
		webServer.SetSink(sink)
		log.Printf("Saving renders to bucket %s", cfg.S3.Bucket)
	} else {
		webServer.SetSink(output.NewFileSink(cfg.OutputDir))
		log.Printf("Saving renders to %s", cfg.OutputDir)
	}

	log.Printf("Whitted Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
