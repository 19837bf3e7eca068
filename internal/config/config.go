package config

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	ShortFormPolicySticky = "sticky"
	ShortFormPolicyReset  = "reset"
)

type Settings struct {
	MariaDBDSN      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ServerPort      int

	PostMediaDir  string
	StoryMediaDir string
	TempUploadDir string

	// uploads left unreferenced this long are swept by the backlog command
	OrphanSourceAge time.Duration

	RedisAddr     string
	RedisPassword string
	JobStatusTTL  time.Duration

	FFmpegPath        string
	FFprobePath       string
	HLSSegmentSeconds int
	TranscodeTimeout  time.Duration
	ProbeTimeout      time.Duration
	WorkerConcurrency int

	ReelMaxSeconds  float64
	StoryMaxSeconds float64
	ShortFormPolicy string

	JWTPublicKey string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string
}

var required = []string{
	"MARIADB_DSN",
	"MARIADB_MAX_OPEN_CONN",
	"MARIADB_MAX_IDLE_CONNS",
	"MARIADB_CONN_MAX_LIFETIME",
	"SERVER_PORT",
	"POST_MEDIA_DIR",
	"STORY_MEDIA_DIR",
	"TEMP_UPLOAD_DIR",
}

func Load() (*Settings, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	viper.AutomaticEnv()

	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: could not read .env file: %v", err)
	}

	viper.SetDefault("FFMPEG_PATH", "ffmpeg")
	viper.SetDefault("FFPROBE_PATH", "ffprobe")
	viper.SetDefault("HLS_SEGMENT_SECONDS", 10)
	viper.SetDefault("TRANSCODE_TIMEOUT", 1800)
	viper.SetDefault("PROBE_TIMEOUT", 60)
	viper.SetDefault("WORKER_CONCURRENCY", 10)
	viper.SetDefault("REEL_MAX_SECONDS", 90)
	viper.SetDefault("STORY_MAX_SECONDS", 15)
	viper.SetDefault("SHORT_FORM_POLICY", ShortFormPolicySticky)
	viper.SetDefault("JOB_STATUS_TTL", 168)
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("ORPHAN_SOURCE_AGE", 24)

	for _, key := range required {
		if !viper.IsSet(key) {
			return nil, fmt.Errorf("%s is required", key)
		}
	}

	policy := strings.ToLower(viper.GetString("SHORT_FORM_POLICY"))
	if policy != ShortFormPolicySticky && policy != ShortFormPolicyReset {
		return nil, fmt.Errorf("SHORT_FORM_POLICY must be %q or %q, got %q", ShortFormPolicySticky, ShortFormPolicyReset, policy)
	}
	if viper.GetInt("WORKER_CONCURRENCY") < 1 {
		return nil, fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	if viper.GetInt("ORPHAN_SOURCE_AGE") < 0 {
		return nil, fmt.Errorf("ORPHAN_SOURCE_AGE must not be negative")
	}
	if viper.GetInt("HLS_SEGMENT_SECONDS") < 1 {
		return nil, fmt.Errorf("HLS_SEGMENT_SECONDS must be at least 1")
	}

	return &Settings{
		MariaDBDSN:      viper.GetString("MARIADB_DSN"),
		MaxOpenConns:    viper.GetInt("MARIADB_MAX_OPEN_CONN"),
		MaxIdleConns:    viper.GetInt("MARIADB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: time.Duration(viper.GetInt("MARIADB_CONN_MAX_LIFETIME")) * time.Second,
		ServerPort:      viper.GetInt("SERVER_PORT"),

		PostMediaDir:  normalisePath(viper.GetString("POST_MEDIA_DIR")),
		StoryMediaDir: normalisePath(viper.GetString("STORY_MEDIA_DIR")),
		TempUploadDir: normalisePath(viper.GetString("TEMP_UPLOAD_DIR")),

		OrphanSourceAge: time.Duration(viper.GetInt("ORPHAN_SOURCE_AGE")) * time.Hour,

		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		JobStatusTTL:  time.Duration(viper.GetInt("JOB_STATUS_TTL")) * time.Hour,

		FFmpegPath:        viper.GetString("FFMPEG_PATH"),
		FFprobePath:       viper.GetString("FFPROBE_PATH"),
		HLSSegmentSeconds: viper.GetInt("HLS_SEGMENT_SECONDS"),
		TranscodeTimeout:  time.Duration(viper.GetInt("TRANSCODE_TIMEOUT")) * time.Second,
		ProbeTimeout:      time.Duration(viper.GetInt("PROBE_TIMEOUT")) * time.Second,
		WorkerConcurrency: viper.GetInt("WORKER_CONCURRENCY"),

		ReelMaxSeconds:  viper.GetFloat64("REEL_MAX_SECONDS"),
		StoryMaxSeconds: viper.GetFloat64("STORY_MAX_SECONDS"),
		ShortFormPolicy: policy,

		JWTPublicKey: viper.GetString("JWT_PUBLIC_KEY"),

		MinioEndpoint:  viper.GetString("MINIO_ENDPOINT"),
		MinioAccessKey: viper.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey: viper.GetString("MINIO_SECRET_KEY"),
		MinioUseSSL:    viper.GetBool("MINIO_USE_SSL"),
		MinioBucket:    viper.GetString("MINIO_BUCKET"),
	}, nil
}

func normalisePath(p string) string {
	return filepath.Clean(filepath.FromSlash(p))
}
