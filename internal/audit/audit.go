package audit

import (
	"context"

	"github.com/Gaurav220900/Social/pkg/log"
)

// Audit actions.
const (
	ActionRegister    = "auth.register"
	ActionLogin       = "auth.login"
	ActionLoginFailed = "auth.login_failed"
	ActionFollow      = "social.follow"
	ActionUnfollow    = "social.unfollow"
	ActionBlock       = "social.block"
	ActionUnblock     = "social.unblock"
	ActionConnect     = "realtime.connect"
	ActionJoinRoom    = "realtime.join_room"
	ActionDisconnect  = "realtime.disconnect"
	ActionSendMessage = "chat.send_message"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldTargetID = "target_id"
	FieldDetail   = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action string, userID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Msg(msg)
}

// LogWithTarget emits an audit log naming the entity the action touched.
func LogWithTarget(ctx context.Context, action string, userID, targetID string, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldTargetID, targetID).
		Msg(msg)
}
