package services

import (
	"barbertrack-backend/models"
	"barbertrack-backend/repository"
)

// AccessPolicy decides what a caller may see and change. One is chosen per
// session by PolicyFor and consulted at every call site instead of checking
// roles ad hoc.
type AccessPolicy interface {
	Caller() models.Caller
	// TransactionFilter is pushed down to the store query.
	TransactionFilter() repository.TransactionFilter
	// Filter drops any transaction the caller may not see.
	Filter(txs []models.Transaction) []models.Transaction
	// Roster narrows the active employee list to the rows the caller may see.
	Roster(employees []models.Profile) []models.Profile
	CanDeleteTransaction() bool
	CanDeactivateEmployee() bool
	CanManageServiceTypes() bool
	CanLogTransaction() bool
}

// PolicyFor selects the policy variant for caller. Anything other than an
// active admin gets the employee policy.
func PolicyFor(caller models.Caller) AccessPolicy {
	if caller.IsAdmin() && caller.IsActive {
		return AdminPolicy{caller: caller}
	}
	return EmployeePolicy{caller: caller}
}

type AdminPolicy struct {
	caller models.Caller
}

func (p AdminPolicy) Caller() models.Caller { return p.caller }

func (p AdminPolicy) TransactionFilter() repository.TransactionFilter {
	return repository.TransactionFilter{}
}

func (p AdminPolicy) Filter(txs []models.Transaction) []models.Transaction { return txs }

func (p AdminPolicy) Roster(employees []models.Profile) []models.Profile { return employees }

func (p AdminPolicy) CanDeleteTransaction() bool  { return true }
func (p AdminPolicy) CanDeactivateEmployee() bool { return true }
func (p AdminPolicy) CanManageServiceTypes() bool { return true }
func (p AdminPolicy) CanLogTransaction() bool     { return false }

type EmployeePolicy struct {
	caller models.Caller
}

func (p EmployeePolicy) Caller() models.Caller { return p.caller }

func (p EmployeePolicy) TransactionFilter() repository.TransactionFilter {
	id := p.caller.ID
	return repository.TransactionFilter{EmployeeID: &id}
}

func (p EmployeePolicy) Filter(txs []models.Transaction) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.EmployeeID == p.caller.ID {
			out = append(out, tx)
		}
	}
	return out
}

func (p EmployeePolicy) Roster(employees []models.Profile) []models.Profile {
	for _, e := range employees {
		if e.ID == p.caller.ID {
			return []models.Profile{e}
		}
	}
	return []models.Profile{}
}

func (p EmployeePolicy) CanDeleteTransaction() bool  { return false }
func (p EmployeePolicy) CanDeactivateEmployee() bool { return false }
func (p EmployeePolicy) CanManageServiceTypes() bool { return false }
func (p EmployeePolicy) CanLogTransaction() bool     { return p.caller.IsActive }
