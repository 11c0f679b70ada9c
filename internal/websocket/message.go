package websocket

// OutgoingMessage 推给本地界面的消息；与游戏服务端帧格式相同
type OutgoingMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// IncomingMessage 本地界面发来的操作，From 为界面连接 ID
type IncomingMessage struct {
	From  string      `json:"from"`
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
