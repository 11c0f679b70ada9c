package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrNoSnapshot = errors.New("no snapshot for room")

// SnapshotRepo 保存并广播每个房间最新的客户端快照（给旁观者/调试工具用）
type SnapshotRepo interface {
	// Publish 覆盖最新快照并通知订阅者
	Publish(ctx context.Context, roomID string, payload []byte) error
	// Last 返回最近一次快照；没有则 ErrNoSnapshot
	Last(ctx context.Context, roomID string) ([]byte, error)
	// Subscribe 订阅后续快照，cancel 后通道关闭
	Subscribe(ctx context.Context, roomID string) (<-chan []byte, func(), error)
}

// key 约定：
//
//	channel: gd:room:{roomID}:state   -> PUBLISH 每份快照
//	kv     : gd:room:{roomID}:last    -> 最新快照（带 TTL）
func stateChannel(roomID string) string {
	return fmt.Sprintf("gd:room:%s:state", roomID)
}

func lastKey(roomID string) string {
	return fmt.Sprintf("gd:room:%s:last", roomID)
}
