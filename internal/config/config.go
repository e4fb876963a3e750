package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort  string
	GinMode     string
	CorsOrigins []string
	ProfilePath string
	Database    DatabaseConfig
	Logging     LoggerConfig
	Plc         PlcConfig
	Camera      CameraConfig
	Inference   InferenceConfig
	Scans       ScansConfig
	Events      EventsConfig
	Kafka       KafkaConfig
	Mqtt        MqttConfig
	Agent       AgentConfig
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Driver     string // sqlite | postgres
	SQLitePath string
	Host       string
	Port       string
	Username   string
	Password   string
	DBName     string
}

// PlcConfig содержит параметры связи с ПЛК
type PlcConfig struct {
	Host            string
	Port            int
	TimeoutMs       int
	ProbeIntervalMs int
	AutoReconnect   bool
	Simulator       bool
}

// CameraConfig содержит параметры источника кадров
type CameraConfig struct {
	Driver      string // synthetic | directory | mjpeg
	Source      string
	MaxFPS      int
	JPEGQuality int
	AutoConnect bool
}

// InferenceConfig содержит параметры запуска инференса
type InferenceConfig struct {
	Mode              string // mock | live
	ModelURL          string
	ImageSize         int
	CapturedDir       string
	ResultsDir        string
	MockSeed          int64
	MockMaxDefects    int
	Trigger           string // off | timer | plc
	TriggerIntervalMs int
	SeverityLow       float64 // 0 = взять из профиля
	SeverityMedium    float64
}

type ScansConfig struct {
	DataDir             string
	ReconcileIntervalMs int
}

type EventsConfig struct {
	Capacity int
}

type KafkaConfig struct {
	Enable bool
	Broker string
	Topic  string
}

type MqttConfig struct {
	Enable      bool
	Broker      string
	ClientID    string
	TopicPrefix string
}

type AgentConfig struct {
	URL       string
	TimeoutMs int
}

const maxProbeIntervalMs = 2000

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:  getEnv("APP_PORT", "5001"),
		GinMode:     getEnv("GIN_MODE", "release"),
		CorsOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		ProfilePath: getEnv("MACHINE_PROFILE", ""),
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "sqlite"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "./data/inspection.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			Username:   getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "root"),
			DBName:     getEnv("DB_NAME", "inspection_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "INFO"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
		Plc: PlcConfig{
			Host:            getEnv("PLC_HOST", ""),
			Port:            getEnvAsInt("PLC_PORT", 5000),
			TimeoutMs:       getEnvAsInt("PLC_TIMEOUT_MS", 2000),
			ProbeIntervalMs: getEnvAsInt("PLC_PROBE_INTERVAL_MS", maxProbeIntervalMs),
			AutoReconnect:   getEnvAsBool("PLC_AUTO_RECONNECT", false),
			Simulator:       getEnvAsBool("PLC_SIMULATOR", false),
		},
		Camera: CameraConfig{
			Driver:      getEnv("CAMERA_DRIVER", "synthetic"),
			Source:      getEnv("CAMERA_SOURCE", ""),
			MaxFPS:      getEnvAsInt("CAMERA_MAX_FPS", 30),
			JPEGQuality: getEnvAsInt("CAMERA_JPEG_QUALITY", 85),
			AutoConnect: getEnvAsBool("CAMERA_AUTOCONNECT", false),
		},
		Inference: InferenceConfig{
			Mode:              getEnv("INFERENCE_MODE", "mock"),
			ModelURL:          getEnv("INFERENCE_MODEL_URL", ""),
			ImageSize:         getEnvAsInt("INFERENCE_IMAGE_SIZE", 518),
			CapturedDir:       getEnv("INFERENCE_CAPTURED_DIR", "./captured_images"),
			ResultsDir:        getEnv("INFERENCE_RESULTS_DIR", "./result_images"),
			MockSeed:          int64(getEnvAsInt("INFERENCE_MOCK_SEED", 42)),
			MockMaxDefects:    getEnvAsInt("INFERENCE_MOCK_MAX_DEFECTS", 3),
			Trigger:           getEnv("INFERENCE_TRIGGER", "off"),
			TriggerIntervalMs: getEnvAsInt("INFERENCE_TRIGGER_INTERVAL_MS", 3000),
			SeverityLow:       getEnvAsFloat("SEVERITY_T1", 0),
			SeverityMedium:    getEnvAsFloat("SEVERITY_T2", 0),
		},
		Scans: ScansConfig{
			DataDir:             getEnv("SCANS_DATA_DIR", "./data/scans"),
			ReconcileIntervalMs: getEnvAsInt("SCAN_RECONCILE_INTERVAL_MS", 1000),
		},
		Events: EventsConfig{
			Capacity: getEnvAsInt("EVENTS_CAPACITY", 200),
		},
		Kafka: KafkaConfig{
			Enable: getEnvAsBool("KAFKA_ENABLE", false),
			Broker: getEnv("KAFKA_BROKER", "localhost:9092"),
			Topic:  getEnv("KAFKA_TOPIC", "inspection_events"),
		},
		Mqtt: MqttConfig{
			Enable:      getEnvAsBool("MQTT_ENABLE", false),
			Broker:      getEnv("MQTT_BROKER", "tcp://localhost:1883"),
			ClientID:    getEnv("MQTT_CLIENT_ID", "inspection-service"),
			TopicPrefix: getEnv("MQTT_TOPIC_PREFIX", "inspection"),
		},
		Agent: AgentConfig{
			URL:       strings.TrimRight(getEnv("RAG_URL", ""), "/"),
			TimeoutMs: getEnvAsInt("RAG_TIMEOUT_MS", 30000),
		},
	}

	if config.Plc.ProbeIntervalMs <= 0 || config.Plc.ProbeIntervalMs > maxProbeIntervalMs {
		config.Plc.ProbeIntervalMs = maxProbeIntervalMs
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate проверяет ошибки конфигурации, при которых запуск невозможен
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("неизвестный DB_DRIVER '%s' (sqlite|postgres)", c.Database.Driver)
	}
	switch c.Camera.Driver {
	case "synthetic", "directory", "mjpeg":
	default:
		return fmt.Errorf("неизвестный CAMERA_DRIVER '%s' (synthetic|directory|mjpeg)", c.Camera.Driver)
	}
	if c.Camera.Driver != "synthetic" && c.Camera.Source == "" {
		return fmt.Errorf("CAMERA_SOURCE обязателен для драйвера '%s'", c.Camera.Driver)
	}
	switch c.Inference.Mode {
	case "mock":
	case "live":
		if c.Inference.ModelURL == "" {
			return fmt.Errorf("INFERENCE_MODEL_URL обязателен в режиме live")
		}
	default:
		return fmt.Errorf("неизвестный INFERENCE_MODE '%s' (mock|live)", c.Inference.Mode)
	}
	switch c.Inference.Trigger {
	case "off", "timer", "plc":
	default:
		return fmt.Errorf("неизвестный INFERENCE_TRIGGER '%s' (off|timer|plc)", c.Inference.Trigger)
	}
	if c.Inference.MockMaxDefects < 0 {
		return fmt.Errorf("INFERENCE_MOCK_MAX_DEFECTS не может быть отрицательным")
	}
	if c.Inference.SeverityLow > 0 && c.Inference.SeverityMedium > 0 && c.Inference.SeverityLow >= c.Inference.SeverityMedium {
		return fmt.Errorf("SEVERITY_T1 (%v) должен быть меньше SEVERITY_T2 (%v)", c.Inference.SeverityLow, c.Inference.SeverityMedium)
	}
	if c.Plc.Port < 0 || c.Plc.Port > 65535 {
		return fmt.Errorf("некорректный PLC_PORT %d", c.Plc.Port)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	valueStr := getEnv(name, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
