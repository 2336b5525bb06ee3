package config

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DMS_DB_DRIVER" env-default:"postgres"`
	DSN    string `yaml:"dsn" env:"DMS_DB_DSN"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"DMS_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"DMS_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"DMS_REDIS_DB" env-default:"0"`
}

// StorageConfig : где хранятся файлы документов (local, s3 или minio)
type StorageConfig struct {
	Backend  string      `yaml:"backend" env:"DMS_STORAGE_BACKEND" env-default:"local"`
	LocalDir string      `yaml:"local_dir" env:"DMS_STORAGE_LOCAL_DIR" env-default:"uploads"`
	MaxUploadMB int      `yaml:"max_upload_mb" env:"DMS_MAX_UPLOAD_MB" env-default:"20"`
	S3       S3Config    `yaml:"s3"`
	Minio    MinioConfig `yaml:"minio"`
}

type S3Config struct {
	Bucket   string `yaml:"bucket" env:"DMS_S3_BUCKET" env-default:"documents"`
	Region   string `yaml:"region" env:"DMS_S3_REGION" env-default:"us-east-1"`
	Endpoint string `yaml:"endpoint" env:"DMS_S3_ENDPOINT"`
	Local    bool   `yaml:"local" env:"DMS_S3_LOCAL"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint" env:"DMS_MINIO_ENDPOINT" env-default:"localhost:9000"`
	AccessKey string `yaml:"access_key" env:"DMS_MINIO_ACCESS_KEY" env-default:"minioadmin"`
	SecretKey string `yaml:"secret_key" env:"DMS_MINIO_SECRET_KEY" env-default:"minioadmin"`
	Bucket    string `yaml:"bucket" env:"DMS_MINIO_BUCKET" env-default:"documents"`
	Region    string `yaml:"region" env:"DMS_MINIO_REGION"`
	UseSSL    bool   `yaml:"use_ssl" env:"DMS_MINIO_USE_SSL"`
}

type JWTConfig struct {
	SecretKey      string `yaml:"secret_key" env:"DMS_JWT_SECRET"`
	AccessTokenTTL string `yaml:"access_token_ttl" env:"DMS_JWT_ACCESS_TTL" env-default:"15m"`
}

// QueueConfig : очередь повторных попыток удаления файлов (asynq поверх Redis)
type QueueConfig struct {
	Enabled     bool `yaml:"enabled" env:"DMS_QUEUE_ENABLED"`
	Concurrency int  `yaml:"concurrency" env:"DMS_QUEUE_CONCURRENCY" env-default:"2"`
	MaxRetry    int  `yaml:"max_retry" env:"DMS_QUEUE_MAX_RETRY" env-default:"5"`
}

type TTL struct {
	Cache int `yaml:"cache" env:"DMS_CACHE_TTL_SECONDS" env-default:"300"`
}

type LoggingConfig struct {
	Environment string `yaml:"environment" env:"DMS_ENV" env-default:"development"`
	Level       string `yaml:"level" env:"DMS_LOG_LEVEL" env-default:"info"`
}
