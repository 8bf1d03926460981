package share

import (
	"context"
	"log/slog"

	"github.com/CrestNiraj12/clipzy/app"
	"github.com/CrestNiraj12/clipzy/domain"
)

// Result summarizes a share run.
type Result struct {
	Sent   []string
	Failed []string
}

// ToFollowers sends clipID to each recipient in order. A recipient without
// a room gets one created first. Failures are logged and the loop moves on.
func ToFollowers(ctx context.Context, svc app.ShareService, log *slog.Logger, clipID int64, recipients []domain.Recipient) Result {
	var res Result
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			res.Failed = append(res.Failed, r.Username)
			continue
		}
		roomID := r.RoomID
		if roomID == 0 {
			id, err := svc.CreateRoom(ctx, r.UserID)
			if err != nil {
				log.Warn("share: create room failed", "user", r.Username, "user_id", r.UserID, "err", err)
				res.Failed = append(res.Failed, r.Username)
				continue
			}
			roomID = id
		}
		if err := svc.SendMessage(ctx, roomID, clipID, ""); err != nil {
			log.Warn("share: send failed", "user", r.Username, "room_id", roomID, "err", err)
			res.Failed = append(res.Failed, r.Username)
			continue
		}
		log.Info("share: sent", "user", r.Username, "room_id", roomID, "clip_id", clipID)
		res.Sent = append(res.Sent, r.Username)
	}
	return res
}
