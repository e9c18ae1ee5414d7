package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field constructors keep key names consistent across handlers and services

func WithRequestID(id string) zap.Field { return zap.String("request_id", id) }
func WithUserID(id string) zap.Field { return zap.String("user_id", id) }
func WithPostID(id string) zap.Field { return zap.String("post_id", id) }
func WithConversationID(id string) zap.Field { return zap.String("conversation_id", id) }
func WithSettingKey(key string) zap.Field { return zap.String("setting_key", key) }
func WithIP(ip string) zap.Field { return zap.String("ip", ip) }
func WithStatus(status int) zap.Field { return zap.Int("status", status) }
func WithDuration(d time.Duration) zap.Field { return zap.Duration("duration", d) }
