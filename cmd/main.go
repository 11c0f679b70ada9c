package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"GuandanClient/config"
	"GuandanClient/internal/api"
	"GuandanClient/internal/auth"
	"GuandanClient/internal/game/engine"
	"GuandanClient/internal/game/manager"
	"GuandanClient/internal/storage"
	"GuandanClient/internal/utils"
	"GuandanClient/internal/websocket"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	if err := config.Load(*configPath); err != nil {
		utils.Error.Fatalf("config: %v", err)
	}
	utils.Init(config.C.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	//-------------------------------------------------------
	// 1. 身份：钱包登录 / 现成 token / 配置里的用户名
	//-------------------------------------------------------
	self, token := config.C.Player.Username, config.C.Player.Token
	switch {
	case config.C.Player.PrivateKey != "":
		client, err := auth.NewClient(config.C.Server.HTTP, config.C.Player.PrivateKey)
		if err != nil {
			utils.Error.Fatalf("auth: %v", err)
		}
		sess, err := client.Login(ctx)
		if err != nil {
			utils.Error.Fatalf("login failed: %v", err)
		}
		self, token = sess.Identity.Subject, sess.Token
	case token != "":
		id, err := auth.IdentityFromToken(token)
		if err != nil {
			utils.Error.Fatalf("token: %v", err)
		}
		if id.Expired(time.Now()) {
			utils.Print.Warn("session token already expired", "exp", id.ExpiresAt)
		}
		self = id.Subject
	}
	utils.Print.Info("playing as", "player", self)

	//-------------------------------------------------------
	// 2. 快照存储：Redis 或内存
	//-------------------------------------------------------
	repo := storage.NewMemoryRepo()
	if config.C.Redis.Enabled {
		if err := storage.InitRedis(ctx, config.C.Redis.Addr, config.C.Redis.Password, config.C.Redis.DB); err != nil {
			utils.Error.Fatalf("Redis init failed: %v", err)
		}
		repo = storage.NewRedisRepo(storage.Rdb, config.C.Redis.TTL)
	}

	//-------------------------------------------------------
	// 3. Hub（本地界面）+ 上行连接 + Engine
	//-------------------------------------------------------
	hub := websocket.NewHub()
	go hub.Run()
	defer hub.Close()

	up := websocket.NewUpstream(config.C.Server.URL, token, nil)
	eng := engine.NewEngine(self, hub, up)
	eng.Store = repo
	up.OnEvent = eng.Deliver

	gameMgr := manager.NewGameManager(eng, hub)
	gameMgr.Start(ctx)
	hub.OnIncoming = gameMgr.HandlePlayerMessage
	hub.OnRegister = gameMgr.SendSnapshot

	// 💡 每次连上服务端：建房或进房
	up.OnConnect = func() {
		actx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		var err error
		switch {
		case config.C.Room.Create:
			err = eng.CreateRoom(actx, config.C.Room.Name)
		case config.C.Room.ID != "":
			err = eng.JoinRoom(actx, config.C.Room.ID)
		}
		if err != nil {
			utils.Error.Printf("enter room: %v", err)
		}
	}
	go func() {
		if err := up.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			utils.Error.Printf("upstream stopped: %v", err)
		}
	}()

	//-------------------------------------------------------
	// 4. 本地 HTTP / WebSocket 入口
	//-------------------------------------------------------
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:    config.C.API.Port,
		Handler: api.NewRouter(api.NewHandler(gameMgr), hub),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	utils.Info.Printf("UI server running on %s", config.C.API.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		utils.Error.Fatalf("http: %v", err)
	}
}
