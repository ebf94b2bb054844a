// Package models defines the core domain models for the chama tracker.
//
// # Ledger
//
// The ledger is two tables:
//   - Member: a registered contributor, identified by phone number
//   - Payment: an append-only record of money received from a member
//
// Member.HasPaid is the current-cycle flag. It is stored, not derived from
// the payments table, so a cycle reset flips the flag without touching
// payment history. Every transition to paid goes through a single storage
// transaction that also appends the Payment row.
//
// # Derived views
//
// Summary, RecentPayment and PendingReminder are read models built by
// storage queries for the admin API and the exported report.
//
// # Design Principles
//
// 1. **Single chama**: there is one implicit group; Payment.ChamaID is kept
// nullable for data imported from multi-group setups but nothing reads it
// 2. **Integer IDs**: rows are keyed by store-assigned integers
// 3. **Phone as join key**: inbound chat messages are matched on the
// canonical phone number with any channel prefix removed
package models
