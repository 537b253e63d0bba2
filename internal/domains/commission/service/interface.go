package service

import (
	"context"

	"github.com/google/uuid"

	"publisher-backend/internal/domains/commission/model"
)

// ServiceInterface defines commission lifecycle operations.
type ServiceInterface interface {
	// Create runs the engine for an author and window, persists the
	// commission and claims the consumed sales, all in one transaction.
	Create(ctx context.Context, req *model.CreateCommissionRequest) (*model.Commission, error)

	// GetByID retrieves one commission with its sales and author populated.
	GetByID(ctx context.Context, id uuid.UUID) (*model.CommissionDetailResponse, error)

	// GetAll lists every commission, newest first.
	GetAll(ctx context.Context) ([]model.Commission, error)

	// GetPending lists unpaid commissions with their payable sum.
	GetPending(ctx context.Context) (*model.CommissionListResponse, error)

	// GetPaid lists paid commissions with their payable sum.
	GetPaid(ctx context.Context) (*model.CommissionListResponse, error)

	// Update overrides the payable amount, rate snapshot or notes.
	// The engine's calculated_amount and the sale linkage never change.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateCommissionRequest) (*model.Commission, error)

	// MarkPaid transitions pending to paid. One-way.
	MarkPaid(ctx context.Context, id uuid.UUID, req *model.PayCommissionRequest) (*model.Commission, error)

	// Delete reverses a commission: releases every claimed sale back to the
	// unprocessed pool and removes the record, atomically.
	Delete(ctx context.Context, id uuid.UUID) error
}
