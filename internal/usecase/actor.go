package usecase

import "market/internal/domain/model"

// Actorは認証済みの呼び出し主。
// 認可の判断はrole＋所有権でここに集約する（endpointごとに散らさない）。
type Actor struct {
	UserID    int64
	ProfileID int64
	Role      model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// リソースの持ち主か、または管理者か
func (a Actor) OwnsOrAdmin(ownerProfileID int64) bool {
	return a.IsAdmin() || a.ProfileID == ownerProfileID
}
