package config

import (
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host       string `yaml:"host" json:"host"`
	Port       int    `yaml:"port" json:"port"`
	Secret     string `yaml:"secret" json:"secret"`
	JwtExpire  int    `yaml:"jwt_expire" json:"jwt_expire"` // hours
	AdminEmail string `yaml:"admin_email" json:"admin_email"`
	AdminPwd   string `yaml:"admin_pwd" json:"admin_pwd"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"` // postgres or sqlite
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	BaseURL  string `yaml:"base_url" json:"base_url"` // used in mail links
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"` // development or production
	Filename   string `yaml:"filename" json:"filename"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
}

type AppConfig struct {
	System   SysConfig  `yaml:"system" json:"system"`
	Web      WebConfig  `yaml:"web" json:"web"`
	Database DBConfig   `yaml:"database" json:"database"`
	Smtp     SmtpConfig `yaml:"smtp" json:"smtp"`
	Logger   LogConfig  `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "storefront",
		Location: "Asia/Kolkata",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		Secret:    "9b6de5cc-0001-1203-xxtt-0f568ac9da37",
		JwtExpire: 24,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "myroot",
		MaxConn:  100,
		IdleConn: 10,
	},
	Smtp: SmtpConfig{
		Host: "smtp.example.org",
		Port: 587,
		From: "no-reply@example.org",
	},
	Logger: LogConfig{
		Mode:     "development",
		Filename: "/var/storefront/storefront.log",
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the YAML config at cfile, falling back to defaults, and
// then lets STOREFRONT_* environment variables override individual values.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if _, err := os.Stat(cfile); err == nil {
			data, err := os.ReadFile(cfile)
			if err == nil {
				fileCfg := new(AppConfig)
				if yaml.Unmarshal(data, fileCfg) == nil {
					cfg = fileCfg
				}
			}
		}
	}

	setEnvValue("STOREFRONT_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOREFRONT_WEB_SECRET", &cfg.Web.Secret)
	setEnvIntValue("STOREFRONT_WEB_JWT_EXPIRE", &cfg.Web.JwtExpire)
	setEnvValue("STOREFRONT_WEB_ADMIN_EMAIL", &cfg.Web.AdminEmail)
	setEnvValue("STOREFRONT_WEB_ADMIN_PWD", &cfg.Web.AdminPwd)

	setEnvValue("STOREFRONT_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvValue("STOREFRONT_DB_PWD", &cfg.Database.Passwd)

	setEnvBoolValue("STOREFRONT_SMTP_ENABLED", &cfg.Smtp.Enabled)
	setEnvValue("STOREFRONT_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("STOREFRONT_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("STOREFRONT_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("STOREFRONT_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvValue("STOREFRONT_SMTP_FROM", &cfg.Smtp.From)

	setEnvValue("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)

	return cfg
}
