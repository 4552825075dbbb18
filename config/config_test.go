package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/places-proxy/config"
)

var _ = Describe("Config", func() {
	var (
		tempDir string
		origDir string
	)

	BeforeEach(func() {
		var err error
		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		tempDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tempDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.Chdir(origDir)).To(Succeed())
		os.RemoveAll(tempDir)
		os.Unsetenv("GOOGLE_PLACES_KEY")
		os.Unsetenv("PLACES_DETAIL_CONCURRENCY")
		os.Unsetenv("PORT")
	})

	Describe("Load", func() {
		Context("with valid config file", func() {
			BeforeEach(func() {
				configContent := `
server:
  address: ":8181"
  environment: "prod"

logging:
  level: "debug"

places:
  base_url: "http://localhost:9999/maps/api/place"
  api_key: "file-key"
  timeout: "3s"
  detail_concurrency: 4

metrics:
  address: ""
  buffer_size: 10
`
				err := os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(configContent), 0644)
				Expect(err).NotTo(HaveOccurred())
			})

			It("should load configuration successfully", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg).NotTo(BeNil())
				Expect(cfg.Server.Address).To(Equal(":8181"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvProd))
				Expect(cfg.Logging.Level).To(Equal(config.LogLevelDebug))
			})

			It("should parse places settings", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Places.BaseURL).To(Equal("http://localhost:9999/maps/api/place"))
				Expect(cfg.Places.APIKey).To(Equal("file-key"))
				Expect(cfg.Places.TimeoutDuration()).To(Equal(3 * time.Second))
				Expect(cfg.Places.DetailConcurrency).To(Equal(4))
			})

			It("should allow the metrics listener to be disabled", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Metrics.Address).To(BeEmpty())
				Expect(cfg.Metrics.BufferSize).To(Equal(10))
			})

			It("should let the environment override the file", func() {
				os.Setenv("GOOGLE_PLACES_KEY", "env-key")
				os.Setenv("PLACES_DETAIL_CONCURRENCY", "2")

				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Places.APIKey).To(Equal("env-key"))
				Expect(cfg.Places.DetailConcurrency).To(Equal(2))
			})
		})

		Context("with environment variables only", func() {
			It("should use defaults when config file missing", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":8080"))
				Expect(cfg.Server.Environment).To(Equal(config.EnvDev))
				Expect(cfg.Places.BaseURL).To(Equal(config.DefaultPlacesBaseURL))
				Expect(cfg.Places.DetailConcurrency).To(Equal(1))
				Expect(cfg.Places.TimeoutDuration()).To(Equal(10 * time.Second))
				Expect(cfg.Metrics.Address).To(Equal(":9090"))
			})

			It("should not fail when the API key is missing", func() {
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Places.APIKey).To(BeEmpty())
			})

			It("should read and trim the API key", func() {
				os.Setenv("GOOGLE_PLACES_KEY", "  secret  ")
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Places.APIKey).To(Equal("secret"))
			})

			It("should honour PORT", func() {
				os.Setenv("PORT", "3000")
				cfg, err := config.Load()
				Expect(err).NotTo(HaveOccurred())
				Expect(cfg.Server.Address).To(Equal(":3000"))
			})

			It("should reject out of range concurrency", func() {
				os.Setenv("PLACES_DETAIL_CONCURRENCY", "50")
				cfg, err := config.Load()
				Expect(err).To(HaveOccurred())
				Expect(cfg).To(BeNil())
			})
		})
	})

	Describe("Validate", func() {
		var cfg *config.Config

		BeforeEach(func() {
			cfg = &config.Config{
				Server:  config.ServerConfig{Address: ":8080", Environment: config.EnvDev},
				Logging: config.LoggingConfig{Level: config.LogLevelInfo},
				Places: config.PlacesConfig{
					BaseURL:           config.DefaultPlacesBaseURL,
					Timeout:           "5s",
					DetailConcurrency: 1,
				},
				Metrics: config.MetricsConfig{Address: ":9090", BufferSize: 100},
			}
		})

		It("should accept a valid configuration", func() {
			Expect(cfg.Validate()).To(Succeed())
		})

		It("should reject an unknown environment", func() {
			cfg.Server.Environment = "qa"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an unknown log level", func() {
			cfg.Logging.Level = "verbose"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a non-http base URL", func() {
			cfg.Places.BaseURL = "ftp://maps.example.com"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject an invalid timeout", func() {
			cfg.Places.Timeout = "soon"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a malformed server address", func() {
			cfg.Server.Address = "invalid:host:port"
			Expect(cfg.Validate()).NotTo(Succeed())
		})

		It("should reject a malformed metrics address", func() {
			cfg.Metrics.Address = "nope"
			Expect(cfg.Validate()).NotTo(Succeed())
		})
	})
})
