package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/jobradar/radar/internal/ai/analyzer"
	"github.com/jobradar/radar/internal/ai/matcher"
	"github.com/jobradar/radar/jobsearch/agent/agentapi"
	"github.com/jobradar/radar/jobsearch/agent/agentsrv"
	"github.com/jobradar/radar/jobsearch/match/matchapi"
	"github.com/jobradar/radar/jobsearch/match/matchinfra"
	"github.com/jobradar/radar/jobsearch/match/matchsrv"
	"github.com/jobradar/radar/jobsearch/posting/postinginfra"
	"github.com/jobradar/radar/jobsearch/resume/resumeapi"
	"github.com/jobradar/radar/jobsearch/resume/resumeinfra"
	"github.com/jobradar/radar/jobsearch/resume/resumesrv"
	"github.com/jobradar/radar/jobsearch/scraper/scraperapi"
	"github.com/jobradar/radar/jobsearch/scraper/scraperinfra"
	"github.com/jobradar/radar/jobsearch/scraper/scrapersrv"
	"github.com/jobradar/radar/jobsearch/scraper/scheduler"
	"github.com/jobradar/radar/jobsearch/scraper/worker"
	"github.com/jobradar/radar/pkg/fsx"
	"github.com/jobradar/radar/pkg/fsx/fsxs3"
	"github.com/jobradar/radar/pkg/logx"
)

// Container holds all application dependencies
type Container struct {
	// Infrastructure
	DB         *sqlx.DB
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	S3Client   *s3.Client

	// Services
	ResumeService  *resumesrv.Service
	MatchService   *matchsrv.Service
	ScraperService *scrapersrv.Service
	AgentService   *agentsrv.Service

	// Background
	Worker    *worker.ScrapeWorker
	Scheduler *scheduler.Scheduler

	// API Handlers
	ResumeHandlers  *resumeapi.ResumeHandlers
	MatchHandlers   *matchapi.MatchHandlers
	ScraperHandlers *scraperapi.ScraperHandlers
	AgentHandlers   *agentapi.AgentHandlers
}

// NewContainer initializes the dependency injection container
func NewContainer() *Container {
	c := &Container{}
	c.initInfrastructure()
	c.initServices()
	return c
}

func (c *Container) initInfrastructure() {
	// 1. Database Connection
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPass := os.Getenv("DB_PASS")
	dbName := os.Getenv("DB_NAME")
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPass, dbName)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		logx.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	c.DB = db

	// 2. Redis Connection
	redisAddr := os.Getenv("REDIS_ADDR")
	redisPass := os.Getenv("REDIS_PASS")
	c.Redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPass,
		DB:       0,
	})
	if _, err := c.Redis.Ping(context.Background()).Result(); err != nil {
		logx.Warnf("Failed to connect to Redis: %v", err)
	}

	// 3. AWS S3 Configuration
	awsRegion := os.Getenv("AWS_REGION")
	awsBucket := os.Getenv("AWS_BUCKET")
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(awsRegion))
	if err != nil {
		logx.Fatalf("unable to load SDK config, %v", err)
	}
	c.S3Client = s3.NewFromConfig(cfg)
	c.FileSystem = fsxs3.NewS3FileSystem(c.S3Client, awsBucket, "resumes")
}

func (c *Container) initServices() {
	// --- Repositories ---
	resumeRepo := resumeinfra.NewPostgresResumeRepository(c.DB)
	postingRepo := postinginfra.NewPostgresPostingRepository(c.DB)
	matchRepo := matchinfra.NewPostgresMatchRepository(c.DB)
	configRepo := scraperinfra.NewPostgresConfigRepository(c.DB)
	queueRepo := scraperinfra.NewPostgresQueueRepository(c.DB)
	jobQueue := scraperinfra.NewRedisQueue(c.Redis, "scrape_runs")

	// --- AI Collaborators ---
	openAIKey := os.Getenv("OPENAI_API_KEY")
	if openAIKey == "" {
		logx.Warn("OPENAI_API_KEY is not set, analysis and enhancement will use fallbacks")
	}
	resumeAnalyzer := analyzer.NewResumeAnalyzer(openAIKey)
	matchScorer := matcher.NewMatchScorer(openAIKey)

	// --- Job Board Source ---
	source := postinginfra.NewHTTPJobSource(
		os.Getenv("JOB_BOARD_URL"),
		os.Getenv("JOB_BOARD_API_KEY"),
		"job-board",
	)

	// --- Domain Services ---
	c.ResumeService = resumesrv.NewService(resumeRepo, c.FileSystem)
	c.MatchService = matchsrv.NewService(matchRepo, postingRepo, resumeRepo, matchScorer)
	c.ScraperService = scrapersrv.NewService(
		configRepo,
		queueRepo,
		jobQueue,
		source,
		postingRepo,
		resumeRepo,
		c.MatchService,
	)
	c.AgentService = agentsrv.NewService(resumeRepo, resumeAnalyzer, c.ScraperService, c.MatchService)

	// --- Background Workers ---
	c.Worker = worker.NewScrapeWorker(c.ScraperService, jobQueue, envInt("SCRAPE_WORKERS", 3))
	c.Scheduler = scheduler.New(c.ScraperService, envInt("SCHEDULER_INTERVAL_MINUTES", 5))

	// --- Handlers ---
	c.ResumeHandlers = resumeapi.NewResumeHandlers(c.ResumeService, c.FileSystem)
	c.MatchHandlers = matchapi.NewMatchHandlers(c.MatchService)
	c.ScraperHandlers = scraperapi.NewScraperHandlers(c.ScraperService)
	c.AgentHandlers = agentapi.NewAgentHandlers(c.AgentService)
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		logx.Warnf("invalid %s=%q, using %d", key, raw, fallback)
		return fallback
	}
	return n
}
