package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		URL  string // 游戏服务端 websocket 地址
		HTTP string // 登录接口地址
	}
	Player struct {
		Username   string
		PrivateKey string
		Token      string
	}
	Room struct {
		ID     string
		Create bool
		Name   string
	}
	API struct {
		Port string
	}
	Redis struct {
		Enabled  bool
		Addr     string
		Password string
		DB       int
		TTL      time.Duration
	}
	Log struct {
		Level string
	}
}

var C Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", "ws://localhost:5000/ws")
	v.SetDefault("server.http", "http://localhost:5000")
	v.SetDefault("player.username", "")
	v.SetDefault("player.privatekey", "")
	v.SetDefault("player.token", "")
	v.SetDefault("room.id", "")
	v.SetDefault("room.create", false)
	v.SetDefault("room.name", "")
	v.SetDefault("api.port", ":8081")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "6h")
	v.SetDefault("log.level", "info")
}

// Load 读取配置文件（可缺省），GUANDAN_* 环境变量覆盖
func Load(path string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("GUANDAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	C = c
	return nil
}

func (c Config) Validate() error {
	if c.Server.URL == "" {
		return errors.New("config: server.url is required")
	}
	if c.Player.Username == "" && c.Player.PrivateKey == "" && c.Player.Token == "" {
		return errors.New("config: one of player.username, player.privateKey or player.token is required")
	}
	if c.Room.Create && c.Room.ID != "" {
		return errors.New("config: room.create and room.id are exclusive")
	}
	return nil
}
