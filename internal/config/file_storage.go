package config

// StorageConfig selects the document archive backend. Signed contracts go
// to the chosen provider; local is the development default.
type StorageConfig struct {
	Provider string              `yaml:"provider"` // local, s3, gcs
	Local    *LocalStorageConfig `yaml:"local"`
	AWS      *AWSStorageConfig   `yaml:"aws"`
	GCP      *GCPStorageConfig   `yaml:"gcp"`
}

type LocalStorageConfig struct {
	BasePath string `yaml:"base_path"`
}

type AWSStorageConfig struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

type GCPStorageConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider: getEnv("STORAGE_PROVIDER", "local"),
		Local: &LocalStorageConfig{
			BasePath: getEnv("STORAGE_LOCAL_PATH", "./archive"),
		},
		AWS: &AWSStorageConfig{
			Region: getEnv("AWS_S3_REGION", "eu-south-1"),
			Bucket: getEnv("AWS_S3_BUCKET", ""),
		},
		GCP: &GCPStorageConfig{
			Bucket:          getEnv("GCP_STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", ""),
		},
	}
}
