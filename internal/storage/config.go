package storage

// MinIOConfig holds MinIO connection configuration for comment archives.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether an endpoint is configured.
func (c *MinIOConfig) Enabled() bool { return c != nil && c.Endpoint != "" }
