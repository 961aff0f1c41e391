package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/entity"
	errs "github.com/abdelrahman-aldesoky/bank-server/internal/domain/error"
	"github.com/abdelrahman-aldesoky/bank-server/internal/domain/port/usecase"
	"github.com/abdelrahman-aldesoky/bank-server/internal/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatch(t *testing.T, router *Router, request any) []byte {
	t.Helper()
	payload, err := json.Marshal(request)
	require.NoError(t, err)

	response := router.Dispatch(context.Background(), payload)
	encoded, err := json.Marshal(response)
	require.NoError(t, err)
	return encoded
}

func TestDispatchMalformedPayload(t *testing.T) {
	router := NewRouter(&stubEngine{}, nopLogger{})

	response := router.Dispatch(context.Background(), []byte("{not json"))

	generic, ok := response.(*protocol.GenericResponse)
	require.True(t, ok)
	assert.Equal(t, protocol.OpCode(-1), generic.ResponseID)
	assert.False(t, generic.Success)
	assert.Equal(t, "Malformed request.", generic.ErrorMessage)
}

func TestDispatchUnknownOpCode(t *testing.T) {
	router := NewRouter(&stubEngine{}, nopLogger{})

	response := router.Dispatch(context.Background(), []byte(`{"requestId":42}`))

	generic, ok := response.(*protocol.GenericResponse)
	require.True(t, ok)
	assert.Equal(t, protocol.OpCode(42), generic.ResponseID)
	assert.Equal(t, "Unknown request.", generic.ErrorMessage)
}

func TestDispatchRecoversFromPanic(t *testing.T) {
	engine := &stubEngine{
		login: func(context.Context, string, string) (*usecase.LoginResult, error) {
			panic("boom")
		},
	}
	router := NewRouter(engine, nopLogger{})

	response := router.Dispatch(context.Background(), []byte(`{"requestId":0}`))

	generic, ok := response.(*protocol.GenericResponse)
	require.True(t, ok)
	assert.Equal(t, "Request failed.", generic.ErrorMessage)
}

func TestHandleLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		engine := &stubEngine{
			login: func(_ context.Context, username, password string) (*usecase.LoginResult, error) {
				assert.Equal(t, "alice", username)
				assert.Equal(t, "secret", password)
				return &usecase.LoginResult{AccountNumber: 7, Admin: true}, nil
			},
		}
		router := NewRouter(engine, nopLogger{})

		encoded := dispatch(t, router, map[string]any{
			"requestId": 0, "username": "alice", "password": "secret",
		})
		assert.JSONEq(t, `{"responseId":0,"loginSuccess":true,"accountNumber":7,"isAdmin":true}`, string(encoded))
	})

	t.Run("Failure carries the client message", func(t *testing.T) {
		engine := &stubEngine{
			login: func(context.Context, string, string) (*usecase.LoginResult, error) {
				return nil, errs.ErrInvalidCredentials
			},
		}
		router := NewRouter(engine, nopLogger{})

		encoded := dispatch(t, router, map[string]any{"requestId": 0, "username": "alice", "password": "bad"})
		assert.JSONEq(t, `{"responseId":0,"loginSuccess":false,"errorMessage":"Login failed."}`, string(encoded))
	})
}

func TestHandleGetBalance(t *testing.T) {
	engine := &stubEngine{
		getBalance: func(_ context.Context, accountNumber uint64) (int64, error) {
			assert.Equal(t, uint64(7), accountNumber)
			return 123456, nil
		},
	}
	router := NewRouter(engine, nopLogger{})

	encoded := dispatch(t, router, map[string]any{"requestId": 2, "accountNumber": 7})
	assert.JSONEq(t, `{"responseId":2,"accountFound":true,"balance":"1234.56"}`, string(encoded))
}

func TestHandleTransact(t *testing.T) {
	t.Run("Amount converts to cents", func(t *testing.T) {
		engine := &stubEngine{
			transact: func(_ context.Context, accountNumber uint64, amountInCents int64) (int64, error) {
				assert.Equal(t, int64(10050), amountInCents)
				return 30050, nil
			},
		}
		router := NewRouter(engine, nopLogger{})

		// amounts arrive as JSON numbers or strings
		encoded := dispatch(t, router, map[string]any{"requestId": 6, "accountNumber": 7, "amount": "100.50"})
		assert.JSONEq(t, `{"responseId":6,"transactionSuccess":true,"newBalance":"300.50"}`, string(encoded))

		encoded = dispatch(t, router, map[string]any{"requestId": 6, "accountNumber": 7, "amount": 100.50})
		assert.JSONEq(t, `{"responseId":6,"transactionSuccess":true,"newBalance":"300.50"}`, string(encoded))
	})

	t.Run("Sub-cent amount rejected before the engine", func(t *testing.T) {
		router := NewRouter(&stubEngine{}, nopLogger{})

		encoded := dispatch(t, router, map[string]any{"requestId": 6, "accountNumber": 7, "amount": "0.001"})
		assert.JSONEq(t, `{"responseId":6,"transactionSuccess":false,"errorMessage":"Invalid amount."}`, string(encoded))
	})

	t.Run("Insufficient balance", func(t *testing.T) {
		engine := &stubEngine{
			transact: func(context.Context, uint64, int64) (int64, error) {
				return 0, errs.NewLedgerError("transact", 7, errs.ErrInsufficientBalance)
			},
		}
		router := NewRouter(engine, nopLogger{})

		encoded := dispatch(t, router, map[string]any{"requestId": 6, "accountNumber": 7, "amount": "-100.00"})
		assert.JSONEq(t, `{"responseId":6,"transactionSuccess":false,"errorMessage":"Insufficient balance"}`, string(encoded))
	})
}

func TestHandleTransfer(t *testing.T) {
	engine := &stubEngine{
		transfer: func(_ context.Context, from, to uint64, amountInCents int64) (*usecase.TransferResult, error) {
			assert.Equal(t, uint64(1), from)
			assert.Equal(t, uint64(2), to)
			assert.Equal(t, int64(25000), amountInCents)
			return &usecase.TransferResult{FromBalance: 75000, ToBalance: 45000}, nil
		},
	}
	router := NewRouter(engine, nopLogger{})

	encoded := dispatch(t, router, map[string]any{
		"requestId": 7, "fromAccountNumber": 1, "toAccountNumber": 2, "amount": "250.00",
	})
	assert.JSONEq(t, `{"responseId":7,"transferSuccess":true,"newFromBalance":"750.00","newToBalance":"450.00"}`, string(encoded))
}

func TestHandleViewHistory(t *testing.T) {
	engine := &stubEngine{
		viewHistory: func(context.Context, uint64) ([]entity.TransactionRecord, error) {
			return []entity.TransactionRecord{
				{TransactionID: 2, AccountNumber: 7, Date: "2024-06-02", Time: "09:00:00", Amount: -500},
				{TransactionID: 1, AccountNumber: 7, Date: "2024-06-01", Time: "12:00:00", Amount: 1000},
			}, nil
		},
	}
	router := NewRouter(engine, nopLogger{})

	encoded := dispatch(t, router, map[string]any{"requestId": 8, "accountNumber": 7})
	assert.JSONEq(t, `{
		"responseId":8,
		"viewTransactionHistorySuccess":true,
		"transactionHistory":[
			{"TransactionID":2,"Date":"2024-06-02","Time":"09:00:00","Amount":"-5.00"},
			{"TransactionID":1,"Date":"2024-06-01","Time":"12:00:00","Amount":"10.00"}
		]
	}`, string(encoded))
}

func TestHandleViewAllAccounts(t *testing.T) {
	engine := &stubEngine{
		viewAllAccounts: func(context.Context) ([]entity.AccountSummary, error) {
			return []entity.AccountSummary{
				{AccountNumber: 1, Username: "admin", Admin: true, Name: "Administrator", Balance: 0, Age: 30},
			}, nil
		},
	}
	router := NewRouter(engine, nopLogger{})

	encoded := dispatch(t, router, map[string]any{"requestId": 5})
	assert.JSONEq(t, `{
		"responseId":5,
		"fetchUserDataSuccess":true,
		"userData":[{"AccountNumber":1,"Username":"admin","isAdmin":true,"Name":"Administrator","Balance":"0.00","Age":30}]
	}`, string(encoded))
}

func TestHandleCreateAndDeleteAccount(t *testing.T) {
	engine := &stubEngine{
		createAccount: func(_ context.Context, params usecase.CreateAccountParams) (uint64, error) {
			assert.Equal(t, "bob", params.Username)
			assert.Equal(t, 25, params.Age)
			return 9, nil
		},
		deleteAccount: func(_ context.Context, accountNumber uint64) error {
			assert.Equal(t, uint64(9), accountNumber)
			return nil
		},
	}
	router := NewRouter(engine, nopLogger{})

	encoded := dispatch(t, router, map[string]any{
		"requestId": 3, "username": "bob", "password": "pw", "name": "Bob", "age": 25,
	})
	assert.JSONEq(t, `{"responseId":3,"createAccountSuccess":true,"accountNumber":9}`, string(encoded))

	encoded = dispatch(t, router, map[string]any{"requestId": 4, "accountNumber": 9})
	assert.JSONEq(t, `{"responseId":4,"deleteAccountSuccess":true}`, string(encoded))
}

func TestHandleUpdateProfile(t *testing.T) {
	engine := &stubEngine{
		updateProfile: func(_ context.Context, params usecase.UpdateProfileParams) error {
			assert.Equal(t, "alice", params.Username)
			assert.Equal(t, "newpw", params.NewPassword)
			assert.Equal(t, "Alice Cooper", params.NewName)
			return nil
		},
	}
	router := NewRouter(engine, nopLogger{})

	encoded := dispatch(t, router, map[string]any{
		"requestId": 9, "username": "alice", "password": "newpw", "name": "Alice Cooper",
	})
	assert.JSONEq(t, `{"responseId":9,"updateSuccess":true}`, string(encoded))
}
