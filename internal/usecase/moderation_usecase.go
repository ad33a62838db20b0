package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"market/internal/domain/model"
	repo "market/internal/repository"

	"github.com/google/uuid"
)

// ModerationUsecaseは通報の受付と解決を担当する。
// 解決はban-vendorかdismissのどちらか一度きり。
type ModerationUsecase struct {
	tx         repo.TransactionManager
	reportRepo repo.ReportRepository
	audit      *AuditRecorder
}

func NewModerationUsecase(tx repo.TransactionManager, reportRepo repo.ReportRepository, audit *AuditRecorder) *ModerationUsecase {
	return &ModerationUsecase{tx: tx, reportRepo: reportRepo, audit: audit}
}

type CreateReportInput struct {
	ProductID    int64
	Reason       string
	EvidenceData []byte
}

type ReportOutput struct {
	ID          int64     `json:"id"`
	ReporterID  *int64    `json:"reporter_id"`
	ProductID   int64     `json:"product_id"`
	Reason      string    `json:"reason"`
	EvidenceKey string    `json:"evidence_key,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// 通報の作成。ログイン済みなら誰でも
func (u *ModerationUsecase) CreateReport(ctx context.Context, actor Actor, in CreateReportInput) (ReportOutput, error) {
	if actor.ProfileID <= 0 {
		return ReportOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return ReportOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return ReportOutput{}, NewHTTPError(http.StatusBadRequest, "reason is required")
	}

	var out ReportOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//通報対象が実在することは確認する
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//証拠画像は保存キーだけ持つ。実体の保存は別レイヤ
		evidenceKey := ""
		if len(in.EvidenceData) > 0 {
			evidenceKey = fmt.Sprintf("reports/%d/%s", in.ProductID, uuid.NewString())
		}

		reporterID := actor.ProfileID
		created, err := r.Reports().Create(ctx, model.Report{
			ReporterID:  &reporterID,
			ProductID:   in.ProductID,
			Reason:      reason,
			EvidenceKey: evidenceKey,
			Status:      model.ReportStatusPending,
			CreatedAt:   time.Now(),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = toReportOutput(created)
		return nil
	})

	if err != nil {
		return ReportOutput{}, err
	}
	return out, nil
}

// BanVendorは通報を受理して出品者をBANする。
// 通報の解決とBANは同じトランザクションで書く：
// 片方だけ残る中間状態を観測させない。
// 解決済み通報への再実行は無害なno-op。
func (u *ModerationUsecase) BanVendor(ctx context.Context, actor Actor, reportID int64) (ReportOutput, error) {
	if actor.UserID <= 0 {
		return ReportOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !actor.IsAdmin() {
		return ReportOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if reportID <= 0 {
		return ReportOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out ReportOutput
	var bannedProfileID int64
	resolved := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rep, err := r.Reports().FindByID(ctx, reportID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "report not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//解決済みは終端。何もしないで現状を返す
		if rep.Status == model.ReportStatusResolved {
			out = toReportOutput(rep)
			return nil
		}

		product, err := r.Products().FindByID(ctx, rep.ProductID)
		if err == repo.ErrNotFound {
			//商品ごと消えていた場合も所有者が辿れない
			return NewDomainError(http.StatusInternalServerError, CodeDataInconsistency,
				"reported product has no vendor")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		vendor, err := r.Profiles().FindByID(ctx, product.VendorID)
		if err == repo.ErrNotFound {
			//所有インバリアント上は起きないはずだが必ず検査する
			return NewDomainError(http.StatusInternalServerError, CodeDataInconsistency,
				"reported product has no vendor")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//BAN理由は商品名＋通報理由から合成。証拠画像は含めない
		banReason := fmt.Sprintf("Report on product '%s': %s", product.Name, rep.Reason)
		if err := r.Profiles().SetBan(ctx, vendor.ID, true, banReason); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Reports().UpdateStatus(ctx, reportID, model.ReportStatusResolved); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		rep.Status = model.ReportStatusResolved
		out = toReportOutput(rep)
		bannedProfileID = vendor.ID
		resolved = true
		return nil
	})

	if err != nil {
		return ReportOutput{}, err
	}

	if resolved {
		u.audit.Record(ctx, &actor.UserID, model.AuditActionUserBanned,
			fmt.Sprintf("Admin banned profile #%d for report #%d", bannedProfileID, reportID))
	}

	return out, nil
}

// DismissReportは出品者に手を付けずに通報を閉じる。
// 解決済みへの再実行はno-op
func (u *ModerationUsecase) DismissReport(ctx context.Context, actor Actor, reportID int64) (ReportOutput, error) {
	if actor.UserID <= 0 {
		return ReportOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !actor.IsAdmin() {
		return ReportOutput{}, NewHTTPError(http.StatusForbidden, "admin only")
	}
	if reportID <= 0 {
		return ReportOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out ReportOutput
	resolved := false

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rep, err := r.Reports().FindByID(ctx, reportID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "report not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if rep.Status == model.ReportStatusResolved {
			out = toReportOutput(rep)
			return nil
		}

		if err := r.Reports().UpdateStatus(ctx, reportID, model.ReportStatusResolved); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		rep.Status = model.ReportStatusResolved
		out = toReportOutput(rep)
		resolved = true
		return nil
	})

	if err != nil {
		return ReportOutput{}, err
	}

	if resolved {
		u.audit.Record(ctx, &actor.UserID, model.AuditActionReportDismissed,
			fmt.Sprintf("Report #%d dismissed for insufficient evidence", reportID))
	}

	return out, nil
}

// UnbanVendorはBANを解除する（管理者の救済操作）
func (u *ModerationUsecase) UnbanVendor(ctx context.Context, actor Actor, profileID int64) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if profileID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Profiles().FindByID(ctx, profileID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "profile not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Profiles().SetBan(ctx, profileID, false, ""); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return err
	}

	u.audit.Record(ctx, &actor.UserID, model.AuditActionUserUnbanned,
		fmt.Sprintf("Admin unbanned profile #%d", profileID))

	return nil
}

// 管理者向けの通報一覧（status絞り込み）
func (u *ModerationUsecase) ListReports(ctx context.Context, actor Actor, f repo.ReportListFilter) ([]ReportOutput, int64, error) {
	if !actor.IsAdmin() {
		return []ReportOutput{}, 0, NewHTTPError(http.StatusForbidden, "admin only")
	}
	switch f.Status {
	case "", string(model.ReportStatusPending), string(model.ReportStatusResolved):
	default:
		return []ReportOutput{}, 0, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	reports, total, err := u.reportRepo.List(ctx, f)
	if err != nil {
		return []ReportOutput{}, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ReportOutput, 0, len(reports))
	for _, rep := range reports {
		outs = append(outs, toReportOutput(rep))
	}
	return outs, total, nil
}

// 自分が出した通報の一覧
func (u *ModerationUsecase) MyReports(ctx context.Context, actor Actor) ([]ReportOutput, error) {
	if actor.ProfileID <= 0 {
		return []ReportOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	reports, err := u.reportRepo.ListByReporter(ctx, actor.ProfileID)
	if err != nil {
		return []ReportOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ReportOutput, 0, len(reports))
	for _, rep := range reports {
		outs = append(outs, toReportOutput(rep))
	}
	return outs, nil
}

func toReportOutput(r model.Report) ReportOutput {
	return ReportOutput{
		ID:          r.ID,
		ReporterID:  r.ReporterID,
		ProductID:   r.ProductID,
		Reason:      r.Reason,
		EvidenceKey: r.EvidenceKey,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}
