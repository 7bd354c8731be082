package domain

import "time"

// EntityKind names the entity a status change belongs to.
type EntityKind string

const (
	EntityTask        EntityKind = "task"
	EntityBid         EntityKind = "bid"
	EntityTransaction EntityKind = "transaction"
)

// StatusChange records one committed status change. From is empty when the
// entity was created by the operation.
type StatusChange struct {
	ID        int64
	Entity    EntityKind
	EntityID  int64
	TaskID    int64
	From      string
	To        string
	ChangedAt time.Time
}

// DiffTask lists the status changes between two snapshots of the same task,
// including bids that exist only in after.
func DiffTask(before, after *Task, at time.Time) []StatusChange {
	var changes []StatusChange

	if before == nil || before.Status != after.Status {
		from := ""
		if before != nil {
			from = string(before.Status)
		}
		changes = append(changes, StatusChange{
			Entity:    EntityTask,
			EntityID:  after.ID,
			TaskID:    after.ID,
			From:      from,
			To:        string(after.Status),
			ChangedAt: at,
		})
	}

	prev := make(map[int64]BidStatus)
	if before != nil {
		for _, b := range before.Bids {
			prev[b.ID] = b.Status
		}
	}
	for _, b := range after.Bids {
		old, ok := prev[b.ID]
		if ok && old == b.Status {
			continue
		}
		changes = append(changes, StatusChange{
			Entity:    EntityBid,
			EntityID:  b.ID,
			TaskID:    after.ID,
			From:      string(old),
			To:        string(b.Status),
			ChangedAt: at,
		})
	}

	return changes
}

// TransactionChange builds the status change record for a transaction.
func TransactionChange(tx *Transaction, from TransactionStatus, at time.Time) StatusChange {
	return StatusChange{
		Entity:    EntityTransaction,
		EntityID:  tx.ID,
		TaskID:    tx.TaskID,
		From:      string(from),
		To:        string(tx.Status),
		ChangedAt: at,
	}
}
