package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/nyomangedewisaya/expense-tracker/internal/ledger"
	"github.com/nyomangedewisaya/expense-tracker/internal/models"
	"github.com/nyomangedewisaya/expense-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

// currentUser pulls the authenticated user placed in the context by
// AuthMiddleware. It writes the error response itself when missing.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get("currentUser")
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "authentication required")
		return nil, false
	}
	return user, true
}

// writeLedgerError translates the ledger error taxonomy into the API envelope.
// Validation and not-found and business-rule conflicts carry their detail to
// the client; anything unexpected is logged and surfaced generically.
func writeLedgerError(c *gin.Context, err error) {
	var insufficient *ledger.InsufficientBalanceError
	switch {
	case errors.As(err, &insufficient):
		util.Error(c, http.StatusConflict, util.CodeConflict,
			fmt.Sprintf("insufficient balance, remaining: %d", insufficient.Remaining))
	case errors.Is(err, ledger.ErrWalletNotFound),
		errors.Is(err, ledger.ErrCategoryNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, ledger.ErrTransferNotFound),
		errors.Is(err, ledger.ErrBudgetNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidDateRange),
		errors.Is(err, ledger.ErrSameWallet):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	case errors.Is(err, ledger.ErrCategoryInUse),
		errors.Is(err, ledger.ErrCategoryHasBudgets),
		errors.Is(err, ledger.ErrCategoryNotTrashed),
		errors.Is(err, ledger.ErrBudgetNeedsExpense),
		errors.Is(err, ledger.ErrTransactionDetached):
		util.Error(c, http.StatusConflict, util.CodeConflict, err.Error())
	default:
		log.Printf("ledger: %v", err)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error, please retry")
	}
}
