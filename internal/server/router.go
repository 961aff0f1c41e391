package server

import (
	"context"
	"encoding/json"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	coreport "github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/core"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/usecase"
	"github.com/abdelrahman-aldesoky/bank-server/internal/protocol"
)

// handlerFunc executes one decoded request and shapes its response envelope.
type handlerFunc func(ctx context.Context, req *protocol.Request) any

// Router maps operation codes to ledger engine calls. It is stateless; every
// response echoes the request's operation code so callers can correlate
// without session state.
type Router struct {
	engine   usecase.LedgerEngine
	logger   coreport.Logger
	handlers map[protocol.OpCode]handlerFunc
}

// NewRouter creates a router dispatching to the given engine.
func NewRouter(engine usecase.LedgerEngine, logger coreport.Logger) *Router {
	r := &Router{
		engine: engine,
		logger: logger,
	}
	r.handlers = map[protocol.OpCode]handlerFunc{
		protocol.OpLogin:             r.handleLogin,
		protocol.OpGetAccountNumber:  r.handleGetAccountNumber,
		protocol.OpGetAccountBalance: r.handleGetBalance,
		protocol.OpCreateAccount:     r.handleCreateAccount,
		protocol.OpDeleteAccount:     r.handleDeleteAccount,
		protocol.OpViewAllAccounts:   r.handleViewAllAccounts,
		protocol.OpTransact:          r.handleTransact,
		protocol.OpTransfer:          r.handleTransfer,
		protocol.OpViewHistory:       r.handleViewHistory,
		protocol.OpUpdateProfile:     r.handleUpdateProfile,
	}
	return r
}

// Dispatch decodes one request payload and returns the response envelope.
// Malformed messages and unknown operation codes produce a generic failure
// response; nothing here terminates the session.
func (r *Router) Dispatch(ctx context.Context, payload []byte) (resp any) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Panic while handling request", map[string]any{"panic": rec})
			resp = &protocol.GenericResponse{
				ResponseID:   -1,
				ErrorMessage: errs.ClientMessage(errs.ErrInternalServer),
			}
		}
	}()

	var req protocol.Request
	if err := json.Unmarshal(payload, &req); err != nil {
		r.logger.Warn("Failed to decode request", map[string]any{"error": err.Error()})
		return &protocol.GenericResponse{
			ResponseID:   -1,
			ErrorMessage: errs.ClientMessage(errs.ErrMalformedRequest),
		}
	}

	handler, ok := r.handlers[req.RequestID]
	if !ok {
		r.logger.Warn("Unknown request", map[string]any{"request_id": int(req.RequestID)})
		return &protocol.GenericResponse{
			ResponseID:   req.RequestID,
			ErrorMessage: errs.ClientMessage(errs.ErrUnknownRequest),
		}
	}

	return handler(ctx, &req)
}

func (r *Router) handleLogin(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.LoginResponse{ResponseID: req.RequestID}

	result, err := r.engine.Login(ctx, req.Username, req.Password)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.LoginSuccess = true
	resp.AccountNumber = result.AccountNumber
	resp.Admin = result.Admin
	return resp
}

func (r *Router) handleGetAccountNumber(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.AccountNumberResponse{ResponseID: req.RequestID}

	accountNumber, err := r.engine.GetAccountNumber(ctx, req.Username)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.UserFound = true
	resp.AccountNumber = accountNumber
	return resp
}

func (r *Router) handleGetBalance(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.BalanceResponse{ResponseID: req.RequestID}

	balance, err := r.engine.GetBalance(ctx, req.AccountNumber)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.AccountFound = true
	resp.Balance = entity.FormatCents(balance)
	return resp
}

func (r *Router) handleCreateAccount(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.CreateAccountResponse{ResponseID: req.RequestID}

	accountNumber, err := r.engine.CreateAccount(ctx, usecase.CreateAccountParams{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Admin:    req.Admin,
	})
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.CreateAccountSuccess = true
	resp.AccountNumber = accountNumber
	return resp
}

func (r *Router) handleDeleteAccount(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.DeleteAccountResponse{ResponseID: req.RequestID}

	if err := r.engine.DeleteAccount(ctx, req.AccountNumber); err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.DeleteAccountSuccess = true
	return resp
}

func (r *Router) handleViewAllAccounts(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.ViewAllAccountsResponse{ResponseID: req.RequestID}

	summaries, err := r.engine.ViewAllAccounts(ctx)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	records := make([]protocol.UserRecord, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, protocol.UserRecord{
			AccountNumber: s.AccountNumber,
			Username:      s.Username,
			Admin:         s.Admin,
			Name:          s.Name,
			Balance:       entity.FormatCents(s.Balance),
			Age:           s.Age,
		})
	}

	resp.FetchUserDataSuccess = true
	resp.UserData = records
	return resp
}

func (r *Router) handleTransact(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.TransactResponse{ResponseID: req.RequestID}

	amount, err := entity.AmountToCents(req.Amount)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	newBalance, err := r.engine.Transact(ctx, req.AccountNumber, amount)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.TransactionSuccess = true
	resp.NewBalance = entity.FormatCents(newBalance)
	return resp
}

func (r *Router) handleTransfer(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.TransferResponse{ResponseID: req.RequestID}

	amount, err := entity.AmountToCents(req.Amount)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	result, err := r.engine.Transfer(ctx, req.FromAccountNumber, req.ToAccountNumber, amount)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.TransferSuccess = true
	resp.NewFromBalance = entity.FormatCents(result.FromBalance)
	resp.NewToBalance = entity.FormatCents(result.ToBalance)
	return resp
}

func (r *Router) handleViewHistory(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.ViewHistoryResponse{ResponseID: req.RequestID}

	records, err := r.engine.ViewHistory(ctx, req.AccountNumber)
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	history := make([]protocol.HistoryRecord, 0, len(records))
	for _, rec := range records {
		history = append(history, protocol.HistoryRecord{
			TransactionID: rec.TransactionID,
			Date:          rec.Date,
			Time:          rec.Time,
			Amount:        entity.FormatCents(rec.Amount),
		})
	}

	resp.ViewTransactionHistorySuccess = true
	resp.TransactionHistory = history
	return resp
}

func (r *Router) handleUpdateProfile(ctx context.Context, req *protocol.Request) any {
	resp := &protocol.UpdateProfileResponse{ResponseID: req.RequestID}

	err := r.engine.UpdateProfile(ctx, usecase.UpdateProfileParams{
		Username:    req.Username,
		NewPassword: req.Password,
		NewName:     req.Name,
	})
	if err != nil {
		resp.ErrorMessage = errs.ClientMessage(err)
		return resp
	}

	resp.UpdateSuccess = true
	return resp
}
