package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-fest-api/internal/domain"
	"github.com/go-fest-api/internal/pkg/id"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Public identifier formats: fixed prefix + zero-padded sequence,
// allocated once at creation and never reassigned.
const (
	mkidPrefix    = "MK25P"
	mkidDigits    = 5
	eventIDPrefix = "MK25E"
	eventIDDigits = 4
)

const uniqueViolation = "23505"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

const userColumns = `user_id, mkid, email, first_name, last_name, register_no, mobile_no,
	password_hash, date_of_birth, receipt_no, intercollege, is_enrolled, is_faculty,
	created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var dob time.Time
	err := row.Scan(
		&u.UserID, &u.MKID, &u.Email, &u.FirstName, &u.LastName, &u.RegisterNo, &u.MobileNo,
		&u.PasswordHash, &dob, &u.ReceiptNo, &u.Intercollege, &u.IsEnrolled, &u.IsFaculty,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	u.DateOfBirth = domain.NewDate(dob)
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if !u.IsFaculty {
		if err := r.attachStudent(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (r *UserRepo) Get(ctx context.Context, userID string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		return nil, err
	}
	if !u.IsFaculty {
		if err := r.attachStudent(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func (r *UserRepo) attachStudent(ctx context.Context, u *domain.User) error {
	var s domain.Student
	err := r.pool.QueryRow(ctx,
		`SELECT college_name, branch, dept, year_of_study, tshirt, registered_at
		 FROM students WHERE user_id = $1`, u.UserID,
	).Scan(&s.CollegeName, &s.Branch, &s.Dept, &s.YearOfStudy, &s.Tshirt, &s.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	u.Student = &s
	return nil
}

func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE user_id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user: %w", domain.ErrNotFound)
	}
	return nil
}

// CreateWithEnrollment commits the pending registration as one atomic
// unit: MKID allocation, the user row, the student row for participant
// accounts, resolve-or-create of the base admission event, and the
// default cart holding it. Any failure rolls the whole unit back.
func (r *UserRepo) CreateWithEnrollment(ctx context.Context, p *domain.PendingRegistration) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	mkid, err := nextMKID(ctx, tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	u := &domain.User{
		UserID:       id.New(),
		MKID:         mkid,
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		RegisterNo:   p.RegisterNo,
		MobileNo:     p.MobileNo,
		PasswordHash: string(hash),
		DateOfBirth:  p.DateOfBirth,
		Intercollege: p.Intercollege,
		IsFaculty:    p.IsFaculty,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO users (user_id, mkid, email, first_name, last_name, register_no, mobile_no,
			password_hash, date_of_birth, intercollege, is_enrolled, is_faculty, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		u.UserID, u.MKID, u.Email, u.FirstName, u.LastName, u.RegisterNo, u.MobileNo,
		u.PasswordHash, u.DateOfBirth.Time, u.Intercollege, u.IsEnrolled, u.IsFaculty,
		u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return nil, classify(err)
	}

	if !p.IsFaculty && p.Student != nil {
		_, err = tx.Exec(ctx,
			`INSERT INTO students (user_id, college_name, branch, dept, year_of_study, tshirt, registered_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			u.UserID, p.Student.CollegeName, p.Student.Branch, p.Student.Dept,
			p.Student.YearOfStudy, p.Student.Tshirt, now,
		)
		if err != nil {
			return nil, classify(err)
		}
		u.Student = &domain.Student{
			CollegeName:  p.Student.CollegeName,
			Branch:       p.Student.Branch,
			Dept:         p.Student.Dept,
			YearOfStudy:  p.Student.YearOfStudy,
			Tshirt:       p.Student.Tshirt,
			RegisteredAt: now,
		}
	}

	eventID, err := resolveBaseEvent(ctx, tx, now)
	if err != nil {
		return nil, classify(err)
	}

	cartID := id.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO carts (cart_id, user_id, added_at, updated_at) VALUES ($1,$2,$3,$4)`,
		cartID, u.UserID, now, now,
	)
	if err != nil {
		return nil, classify(err)
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO cart_events (cart_id, event_id) VALUES ($1,$2)`,
		cartID, eventID,
	)
	if err != nil {
		return nil, classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, classify(err)
	}
	return u, nil
}

// nextMKID reads the highest allocated MKID under a row lock so two
// concurrent enrollments cannot compute the same successor. On an empty
// table there is no row to lock; the unique constraint on mkid is the
// backstop and a collision fails the transaction.
func nextMKID(ctx context.Context, tx pgx.Tx) (string, error) {
	var last string
	err := tx.QueryRow(ctx,
		`SELECT mkid FROM users ORDER BY mkid DESC LIMIT 1 FOR UPDATE`,
	).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	return nextSequentialID(last, mkidPrefix, mkidDigits)
}

// resolveBaseEvent returns the base admission event's ID, creating the
// row with its default price and description if it does not exist yet.
// Runs inside the enrollment transaction.
func resolveBaseEvent(ctx context.Context, tx pgx.Tx, now time.Time) (string, error) {
	var eventID string
	err := tx.QueryRow(ctx,
		`SELECT event_id FROM events WHERE event_name = $1`, domain.BaseEventName,
	).Scan(&eventID)
	if err == nil {
		return eventID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	var last string
	err = tx.QueryRow(ctx,
		`SELECT event_id FROM events ORDER BY event_id DESC LIMIT 1 FOR UPDATE`,
	).Scan(&last)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}
	eventID, err = nextSequentialID(last, eventIDPrefix, eventIDDigits)
	if err != nil {
		return "", err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO events (event_id, event_name, description, start_time, end_time, price, participation_limit)
		 VALUES ($1,$2,$3,$4,$5,$6,0)`,
		eventID, domain.BaseEventName, domain.BaseEventDescription,
		now.Add(24*time.Hour), now.Add(48*time.Hour), domain.BaseEventPrice,
	)
	if err != nil {
		return "", err
	}
	return eventID, nil
}

// nextSequentialID parses the numeric suffix of the last allocated ID
// and formats its successor with fixed zero-padding. An empty or
// foreign-prefixed last ID restarts the sequence at 1.
func nextSequentialID(last, prefix string, digits int) (string, error) {
	seq := 0
	if strings.HasPrefix(last, prefix) {
		n, err := strconv.Atoi(last[len(prefix):])
		if err != nil {
			return "", fmt.Errorf("malformed id %q: %w", last, err)
		}
		seq = n
	}
	return fmt.Sprintf("%s%0*d", prefix, digits, seq+1), nil
}

// classify maps unique-constraint violations onto the domain conflict
// sentinel; everything else passes through for the pipeline to treat as
// an internal failure.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrConflict)
	}
	return err
}
