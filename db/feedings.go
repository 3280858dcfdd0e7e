package db

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// AddFeeding records a feeding and returns its ID. ml of zero means the
// volume is unknown and is stored as NULL.
func (d *Database) AddFeeding(ownerID int64, at time.Time, ml int) (int64, error) {
	var vol sql.NullInt64
	if ml > 0 {
		vol = sql.NullInt64{Int64: int64(ml), Valid: true}
	}

	res, err := d.db.Exec(`INSERT INTO feedings(owner_id, ts_utc, ml) VALUES(?, ?, ?)`,
		ownerID, at.UTC().Unix(), vol)
	if err != nil {
		return 0, errors.Wrap(err, "failed inserting feeding")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed reading feeding ID")
	}

	return id, nil
}

// FeedingsSince returns the owner's feedings at or after since, ascending by
// timestamp.
func (d *Database) FeedingsSince(ownerID int64, since time.Time) ([]Feeding, error) {
	rows, err := d.db.Query(`SELECT id, owner_id, ts_utc, ml FROM feedings
WHERE owner_id=? AND ts_utc>=?
ORDER BY ts_utc ASC, id ASC`, ownerID, since.UTC().Unix())
	if err != nil {
		return nil, errors.Wrap(err, "failed querying feedings")
	}
	defer rows.Close()

	var feedings []Feeding
	for rows.Next() {
		var f Feeding
		var ts int64
		var ml sql.NullInt64

		if err = rows.Scan(&f.ID, &f.OwnerID, &ts, &ml); err != nil {
			return nil, errors.Wrap(err, "failed scanning feeding")
		}

		f.At = time.Unix(ts, 0).UTC()
		if ml.Valid {
			f.Volume = int(ml.Int64)
		}

		feedings = append(feedings, f)
	}

	return feedings, errors.Wrap(rows.Err(), "failed reading feedings")
}

// DeleteLastFeeding removes the owner's most recent feeding and reports
// whether there was one. On equal timestamps the newest row wins.
func (d *Database) DeleteLastFeeding(ownerID int64) (bool, error) {
	var id int64
	err := d.db.QueryRow(`SELECT id FROM feedings WHERE owner_id=?
ORDER BY ts_utc DESC, id DESC LIMIT 1`, ownerID).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		return false, nil
	case err != nil:
		return false, errors.Wrap(err, "failed finding last feeding")
	}

	if _, err = d.db.Exec(`DELETE FROM feedings WHERE id=?`, id); err != nil {
		return false, errors.Wrap(err, "failed deleting feeding")
	}

	return true, nil
}

// DeleteAllFeedings removes all of the owner's feedings and returns how many
// rows were removed.
func (d *Database) DeleteAllFeedings(ownerID int64) (int64, error) {
	res, err := d.db.Exec(`DELETE FROM feedings WHERE owner_id=?`, ownerID)
	if err != nil {
		return 0, errors.Wrap(err, "failed deleting feedings")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed counting deleted feedings")
	}

	return n, nil
}
