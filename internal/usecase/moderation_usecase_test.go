package usecase_test

import (
	"context"
	"testing"

	"market/internal/domain/model"
	repo "market/internal/repository"
	"market/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newModerationFixture() (*TxManagerMock, *ReportRepoMock, *ProductRepoMock, *ProfileRepoMock, *AuditRepoMock, *usecase.ModerationUsecase) {
	tx := new(TxManagerMock)
	reportsRepo := new(ReportRepoMock)
	productsRepo := new(ProductRepoMock)
	profilesRepo := new(ProfileRepoMock)
	auditRepo := new(AuditRepoMock)

	tx.Repos = &TxReposMock{
		reports:  reportsRepo,
		products: productsRepo,
		profiles: profilesRepo,
	}

	uc := usecase.NewModerationUsecase(tx, reportsRepo, usecase.NewAuditRecorder(auditRepo))
	return tx, reportsRepo, productsRepo, profilesRepo, auditRepo, uc
}

func adminActor() usecase.Actor {
	return usecase.Actor{UserID: 1, ProfileID: 1, Role: model.RoleAdmin}
}

func TestModerationUsecase_CreateReport_RequiresReason(t *testing.T) {
	_, _, _, _, _, uc := newModerationFixture()

	_, err := uc.CreateReport(context.Background(), clientActor(10), usecase.CreateReportInput{
		ProductID: 7,
		Reason:    "   ",
	})
	assertErrContains(t, err, "reason is required")
}

func TestModerationUsecase_CreateReport_ProductMustExist(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, productsRepo, _, _, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	productsRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.CreateReport(ctx, clientActor(10), usecase.CreateReportInput{
		ProductID: 7,
		Reason:    "counterfeit item",
	})

	assertErrContains(t, err, "product not found")
	reportsRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestModerationUsecase_CreateReport_Success(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, productsRepo, _, _, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	productsRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Product{ID: 7}, nil)

	reportsRepo.On("Create", mock.Anything, mock.MatchedBy(func(r model.Report) bool {
		return r.ProductID == 7 &&
			r.Status == model.ReportStatusPending &&
			r.Reason == "counterfeit item" &&
			r.ReporterID != nil && *r.ReporterID == 10
	})).Return(model.Report{ID: 3, ProductID: 7, Status: model.ReportStatusPending}, nil)

	out, err := uc.CreateReport(ctx, clientActor(10), usecase.CreateReportInput{
		ProductID: 7,
		Reason:    "counterfeit item",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.ID)
	assert.Equal(t, string(model.ReportStatusPending), out.Status)
	reportsRepo.AssertExpectations(t)
}

func TestModerationUsecase_BanVendor_AdminOnly(t *testing.T) {
	_, _, _, _, _, uc := newModerationFixture()

	_, err := uc.BanVendor(context.Background(), clientActor(10), 3)
	assertErrContains(t, err, "admin only")
}

// BAN理由は商品名と通報理由から合成され、通報の解決と同時に書かれる
func TestModerationUsecase_BanVendor_BansAndResolvesTogether(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, productsRepo, profilesRepo, auditRepo, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	reporter := int64(10)
	reportsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Report{
		ID:         3,
		ReporterID: &reporter,
		ProductID:  7,
		Reason:     "counterfeit item",
		Status:     model.ReportStatusPending,
	}, nil)

	productsRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Product{
		ID:       7,
		Name:     "Designer Bag",
		VendorID: 20,
	}, nil)

	profilesRepo.On("FindByID", mock.Anything, int64(20)).Return(model.Profile{
		ID:   20,
		Role: model.RoleVendor,
	}, nil)

	profilesRepo.On("SetBan", mock.Anything, int64(20), true,
		"Report on product 'Designer Bag': counterfeit item").Return(nil)

	reportsRepo.On("UpdateStatus", mock.Anything, int64(3), model.ReportStatusResolved).Return(nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionUserBanned
	})).Return(nil)

	out, err := uc.BanVendor(ctx, adminActor(), 3)

	assert.NoError(t, err)
	assert.Equal(t, string(model.ReportStatusResolved), out.Status)

	profilesRepo.AssertExpectations(t)
	reportsRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

// 商品の出品者が辿れなければ500のdata_inconsistency
func TestModerationUsecase_BanVendor_MissingVendor_DataInconsistency(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, productsRepo, profilesRepo, _, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	reportsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Report{
		ID:        3,
		ProductID: 7,
		Status:    model.ReportStatusPending,
	}, nil)

	productsRepo.On("FindByID", mock.Anything, int64(7)).Return(model.Product{
		ID: 7, VendorID: 20,
	}, nil)

	profilesRepo.On("FindByID", mock.Anything, int64(20)).Return(model.Profile{}, repo.ErrNotFound)

	_, err := uc.BanVendor(ctx, adminActor(), 3)

	assertErrContains(t, err, "reported product has no vendor")
	assert.True(t, usecase.HasCode(err, usecase.CodeDataInconsistency))

	profilesRepo.AssertNotCalled(t, "SetBan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	reportsRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

// 解決済みへの再実行は何も書かずに現状を返す
func TestModerationUsecase_BanVendor_AlreadyResolved_NoOp(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, _, profilesRepo, auditRepo, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	reportsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Report{
		ID:     3,
		Status: model.ReportStatusResolved,
	}, nil)

	out, err := uc.BanVendor(ctx, adminActor(), 3)

	assert.NoError(t, err)
	assert.Equal(t, string(model.ReportStatusResolved), out.Status)

	profilesRepo.AssertNotCalled(t, "SetBan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	reportsRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	auditRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestModerationUsecase_DismissReport_ResolvesWithoutTouchingVendor(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, _, profilesRepo, auditRepo, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	reportsRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Report{
		ID:     3,
		Status: model.ReportStatusPending,
	}, nil)
	reportsRepo.On("UpdateStatus", mock.Anything, int64(3), model.ReportStatusResolved).Return(nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionReportDismissed
	})).Return(nil)

	out, err := uc.DismissReport(ctx, adminActor(), 3)

	assert.NoError(t, err)
	assert.Equal(t, string(model.ReportStatusResolved), out.Status)

	//dismissは出品者に一切触らない
	profilesRepo.AssertNotCalled(t, "SetBan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	auditRepo.AssertExpectations(t)
}

func TestModerationUsecase_DismissReport_NotFound(t *testing.T) {
	ctx := context.Background()
	tx, reportsRepo, _, _, _, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	reportsRepo.On("FindByID", mock.Anything, int64(99)).Return(model.Report{}, repo.ErrNotFound)

	_, err := uc.DismissReport(ctx, adminActor(), 99)
	assertErrContains(t, err, "report not found")
}

func TestModerationUsecase_UnbanVendor_ClearsBan(t *testing.T) {
	ctx := context.Background()
	tx, _, _, profilesRepo, auditRepo, uc := newModerationFixture()
	tx.On("WithinTx", mock.Anything).Return(nil)

	profilesRepo.On("FindByID", mock.Anything, int64(20)).Return(model.Profile{
		ID:       20,
		IsBanned: true,
	}, nil)
	profilesRepo.On("SetBan", mock.Anything, int64(20), false, "").Return(nil)

	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.Action == model.AuditActionUserUnbanned
	})).Return(nil)

	err := uc.UnbanVendor(ctx, adminActor(), 20)

	assert.NoError(t, err)
	profilesRepo.AssertExpectations(t)
	auditRepo.AssertExpectations(t)
}

func TestModerationUsecase_ListReports_InvalidStatus(t *testing.T) {
	_, _, _, _, _, uc := newModerationFixture()

	_, _, err := uc.ListReports(context.Background(), adminActor(), repo.ReportListFilter{
		Status: "open",
		Page:   1,
		Limit:  20,
	})
	assertErrContains(t, err, "invalid status")
}
