package db

import (
	"context"
	"crypto/rand"
	"database/sql"

	"github.com/pkg/errors"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLen      = 6
	codeAttempts = 10
)

var errCodeSpaceExhausted = errors.New("couldn't generate a unique invite code")

func newCode() (string, error) {
	buf := make([]byte, codeLen)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, "failed reading random bytes")
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}

	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

// CreateInvite creates a new invite code for the owner. Codes are random, so
// the insert is retried on a collision with an existing code.
func (d *Database) CreateInvite(ownerID int64) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := newCode()
		if err != nil {
			return "", err
		}

		_, err = d.db.Exec(`INSERT INTO invites(code, owner_id, invited_id, created_at)
VALUES(?, ?, NULL, ?)`, code, ownerID, clk.Now().UTC().Unix())
		if err == nil {
			return code, nil
		}
		if !isUniqueViolation(err) {
			return "", errors.Wrap(err, "failed inserting invite")
		}
	}

	return "", errCodeSpaceExhausted
}

// ClaimInvite binds the invited user to the code's owner. The check and the
// update run in one transaction so that of two concurrent claimers exactly
// one wins.
func (d *Database) ClaimInvite(code string, invitedID int64) (int64, JoinStatus, error) {
	tx, err := d.db.BeginTx(context.Background(), nil)
	if err != nil {
		return 0, JoinNotFound, errors.Wrap(err, "failed beginning transaction")
	}
	defer tx.Rollback()

	var ownerID int64
	var existing sql.NullInt64
	err = tx.QueryRow(`SELECT owner_id, invited_id FROM invites WHERE code=?`, code).
		Scan(&ownerID, &existing)

	switch {
	case err == sql.ErrNoRows:
		return 0, JoinNotFound, nil
	case err != nil:
		return 0, JoinNotFound, errors.Wrap(err, "failed querying invite")
	}

	if existing.Valid {
		return 0, JoinAlreadyUsed, nil
	}

	res, err := tx.Exec(`UPDATE invites SET invited_id=?, claimed_at=? WHERE code=? AND invited_id IS NULL`,
		invitedID, clk.Now().UTC().Unix(), code)
	if err != nil {
		return 0, JoinNotFound, errors.Wrap(err, "failed claiming invite")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, JoinNotFound, errors.Wrap(err, "failed checking claim")
	}
	if n == 0 {
		// lost the race to a concurrent claimer
		return 0, JoinAlreadyUsed, nil
	}

	if err = tx.Commit(); err != nil {
		return 0, JoinNotFound, errors.Wrap(err, "failed committing claim")
	}

	return ownerID, JoinOK, nil
}

// OwnerByInvited returns the owner the invited user acts on behalf of. When
// the user has claimed several codes the most recent claim wins.
func (d *Database) OwnerByInvited(invitedID int64) (int64, bool, error) {
	var ownerID int64
	err := d.db.QueryRow(`SELECT owner_id FROM invites WHERE invited_id=?
ORDER BY claimed_at DESC, code ASC LIMIT 1`, invitedID).Scan(&ownerID)

	switch {
	case err == sql.ErrNoRows:
		return 0, false, nil
	case err != nil:
		return 0, false, errors.Wrap(err, "failed querying delegation")
	}

	return ownerID, true, nil
}
