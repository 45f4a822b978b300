package skater

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skatepark/internal/database"
)

const uniqueViolation = "23505"

// Credentials is a skater row joined with its admin link.
type Credentials struct {
	database.Skater
	Admin bool `gorm:"column:admin"`
}

// Repository is the credential store. Implementations translate driver
// errors into ErrNotFound, ErrEmailTaken or ErrStorage.
type Repository interface {
	// WithTx runs fn in a transaction; fn's error rolls it back.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, s *database.Skater) error
	FindByID(ctx context.Context, id uint) (*database.Skater, error)
	// LockByID reads the row FOR UPDATE. Only meaningful inside WithTx.
	LockByID(ctx context.Context, id uint) (*database.Skater, error)
	FindCredentials(ctx context.Context, email string) (*Credentials, error)
	Save(ctx context.Context, s *database.Skater) error
	Delete(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, id uint, estado bool) error
	List(ctx context.Context) ([]database.Skater, error)
	IsAdmin(ctx context.Context, id uint) (bool, error)
	SetAdmin(ctx context.Context, email string, active bool) error
}

type gormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) Create(ctx context.Context, s *database.Skater) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *gormRepository) FindByID(ctx context.Context, id uint) (*database.Skater, error) {
	var s database.Skater
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *gormRepository) LockByID(ctx context.Context, id uint) (*database.Skater, error) {
	var s database.Skater
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&s, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *gormRepository) FindCredentials(ctx context.Context, email string) (*Credentials, error) {
	var c Credentials
	err := r.db.WithContext(ctx).
		Table("skaters AS s").
		Select("s.*, COALESCE(a.estado, false) AS admin").
		Joins("LEFT JOIN administradores AS a ON a.id_skater = s.id").
		Where("s.email = ?", email).
		Take(&c).Error
	if err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Save overwrites every editable column of an existing row.
func (r *gormRepository) Save(ctx context.Context, s *database.Skater) error {
	result := r.db.WithContext(ctx).
		Model(&database.Skater{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"email":            s.Email,
			"nombre":           s.Nombre,
			"password":         s.Password,
			"anos_experiencia": s.AnosExperiencia,
			"especialidad":     s.Especialidad,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&database.Skater{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) SetStatus(ctx context.Context, id uint, estado bool) error {
	result := r.db.WithContext(ctx).
		Model(&database.Skater{}).
		Where("id = ?", id).
		Update("estado", estado)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormRepository) List(ctx context.Context) ([]database.Skater, error) {
	var skaters []database.Skater
	err := r.db.WithContext(ctx).
		Omit("password").
		Order("id").
		Find(&skaters).Error
	if err != nil {
		return nil, translate(err)
	}
	return skaters, nil
}

func (r *gormRepository) IsAdmin(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&database.Administrator{}).
		Where("id_skater = ? AND estado = ?", id, true).
		Count(&n).Error
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

func (r *gormRepository) SetAdmin(ctx context.Context, email string, active bool) error {
	var s database.Skater
	if err := r.db.WithContext(ctx).Select("id").Where("email = ?", email).Take(&s).Error; err != nil {
		return translate(err)
	}

	link := database.Administrator{SkaterID: s.ID, Estado: active}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id_skater"}},
			DoUpdates: clause.AssignmentColumns([]string{"estado"}),
		}).
		Create(&link).Error
	return translate(err)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return ErrEmailTaken
	default:
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
