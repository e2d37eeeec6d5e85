package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/example/jobhunt-orchestrator/internal/api"
	"github.com/example/jobhunt-orchestrator/internal/checkpoint"
	"github.com/example/jobhunt-orchestrator/internal/config"
	"github.com/example/jobhunt-orchestrator/internal/cvpdf"
	"github.com/example/jobhunt-orchestrator/internal/jobsearch"
	"github.com/example/jobhunt-orchestrator/internal/orchestrator"
	"github.com/example/jobhunt-orchestrator/internal/providers/llm"
	"github.com/example/jobhunt-orchestrator/internal/task"
	"github.com/example/jobhunt-orchestrator/internal/tasks"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fs := afero.NewOsFs()
	store, err := checkpoint.NewFileStore(fs, cfg.CheckpointDir)
	if err != nil {
		log.Fatalf("checkpoint store: %v", err)
	}
	renderer, err := cvpdf.NewRenderer(fs, cfg.CVDir)
	if err != nil {
		log.Fatalf("cv renderer: %v", err)
	}

	client := llm.NewFromEnv()
	search := &jobsearch.Client{APIKey: cfg.JobSearchAPIKey}

	reg := task.NewRegistry()
	reg.Register(&tasks.Planner{Client: client, ApprovalRequired: cfg.ApprovalRequired})
	reg.Register(&tasks.ResumeAnalyst{Client: client})
	reg.Register(&tasks.JobResearcher{Client: client, Search: search})
	reg.Register(&tasks.CVCreator{Client: client, Renderer: renderer})
	reg.Register(&tasks.JobMatcher{Client: client})

	hub := orchestrator.NewHub()
	sched := orchestrator.New(reg, store, orchestrator.Options{
		Budget:      cfg.RunBudget(),
		TaskTimeout: cfg.TaskTimeout(),
		Hub:         hub,
	})

	srv := &api.Server{
		Scheduler: sched,
		Store:     store,
		Hub:       hub,
		Fs:        fs,
		UploadDir: cfg.UploadDir,
	}
	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)

	addr := ":" + cfg.Port
	log.Printf("server listening on %s", addr)
	if err := http.ListenAndServe(addr, cors(mux)); err != nil {
		log.Fatal(err)
	}
}

// simple CORS middleware for local dev
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
