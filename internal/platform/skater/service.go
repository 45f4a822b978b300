package skater

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"skatepark/internal/config"
	"skatepark/internal/database"
	"skatepark/internal/mail"
	"skatepark/internal/metrics"
	"skatepark/internal/platform/storage"
	"skatepark/pkg/logger"
	"skatepark/pkg/utils"
)

const DefaultMaxUploadSize int64 = 2 * 1024 * 1024

type RegisterInput struct {
	Email           string `validate:"required,email"`
	Nombre          string `validate:"required"`
	Password        string `validate:"required"`
	AnosExperiencia int    `validate:"gte=0"`
	Especialidad    string `validate:"required"`
}

// UpdateInput replaces the profile. An empty Password keeps the current one.
type UpdateInput struct {
	Email           string `validate:"required,email"`
	Nombre          string `validate:"required"`
	Password        string
	AnosExperiencia int    `validate:"gte=0"`
	Especialidad    string `validate:"required"`
}

// Upload is a photo received with a registration.
type Upload struct {
	Filename string
	Content  []byte
}

// Identity is what a successful login knows about the skater.
type Identity struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}

type Overview struct {
	Skaters    []database.Skater `json:"skaters"`
	Aprobados  int64             `json:"aprobados"`
	EnRevision int64             `json:"en_revision"`
}

type Service struct {
	repo      Repository
	media     storage.StorageService
	mailer    mail.Mailer
	mailFrom  string
	maxUpload int64
	log       zerolog.Logger
}

type Option func(*Service)

func WithMailer(m mail.Mailer, from string) Option {
	return func(s *Service) {
		s.mailer = m
		s.mailFrom = from
	}
}

func WithMaxUploadSize(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUpload = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

func NewService(repo Repository, media storage.StorageService, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		media:     media,
		mailer:    mail.NopMailer{},
		maxUpload: DefaultMaxUploadSize,
		log:       logger.Get(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a pending skater and stores the photo. The row and the
// photo are committed together: a failed photo write rolls the row back and a
// failed commit removes the written photo.
func (s *Service) Register(ctx context.Context, in RegisterInput, photo *Upload) (uint, error) {
	id, err := s.register(ctx, in, photo)
	metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
	return id, err
}

func (s *Service) register(ctx context.Context, in RegisterInput, photo *Upload) (uint, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Especialidad = strings.TrimSpace(in.Especialidad)

	if err := config.Validate.Struct(in); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if photo == nil || photo.Filename == "" || len(photo.Content) == 0 {
		return 0, fmt.Errorf("%w: missing photo", ErrValidation)
	}
	if int64(len(photo.Content)) > s.maxUpload {
		return 0, ErrImageTooLarge
	}
	if !s.media.IsFileExtensionAllowed(photo.Filename) {
		return 0, fmt.Errorf("%w: extension of %q", ErrUnsupportedImage, photo.Filename)
	}

	content, err := s.media.PrepareImage(photo.Content)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return 0, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
		}
		return 0, fmt.Errorf("%w: %w", ErrMedia, err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	key := s.media.GenerateKeyName(photo.Filename)
	skater := &database.Skater{
		Email:           in.Email,
		Nombre:          in.Nombre,
		Password:        hash,
		AnosExperiencia: in.AnosExperiencia,
		Especialidad:    in.Especialidad,
		Foto:            key,
		Estado:          false,
	}

	saved := false
	err = s.repo.WithTx(ctx, func(tx Repository) error {
		if err := tx.Create(ctx, skater); err != nil {
			return err
		}
		if err := s.media.SaveFile(key, content); err != nil {
			return fmt.Errorf("%w: %w", ErrMedia, err)
		}
		saved = true
		return nil
	})
	if err != nil {
		if saved {
			s.removePhoto(key)
		}
		return 0, err
	}

	s.log.Info().Uint("skater_id", skater.ID).Str("foto", key).Msg("skater registered")
	return skater.ID, nil
}

func registrationResult(err error) string {
	switch {
	case err == nil:
		return "created"
	case errors.Is(err, ErrValidation), errors.Is(err, ErrImageTooLarge), errors.Is(err, ErrUnsupportedImage):
		return "invalid"
	case errors.Is(err, ErrEmailTaken):
		return "conflict"
	case errors.Is(err, ErrMedia):
		return "media_error"
	default:
		return "error"
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: missing email or password", ErrValidation)
	}

	creds, err := s.repo.FindCredentials(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	if !utils.VerifyPassword(password, creds.Password) {
		metrics.LoginsTotal.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return &Identity{
		ID:     creds.ID,
		Nombre: creds.Nombre,
		Email:  creds.Email,
		Admin:  creds.Admin,
	}, nil
}

func (s *Service) Profile(ctx context.Context, id uint) (*database.Skater, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateProfile overwrites the editable fields of skater id.
func (s *Service) UpdateProfile(ctx context.Context, id uint, in UpdateInput) error {
	in.Email = strings.TrimSpace(in.Email)
	in.Nombre = strings.TrimSpace(in.Nombre)
	in.Especialidad = strings.TrimSpace(in.Especialidad)

	if err := config.Validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var hash string
	if in.Password != "" {
		var err error
		if hash, err = utils.HashPassword(in.Password); err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
	}

	return s.repo.WithTx(ctx, func(tx Repository) error {
		current, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}

		current.Email = in.Email
		current.Nombre = in.Nombre
		current.AnosExperiencia = in.AnosExperiencia
		current.Especialidad = in.Especialidad
		if hash != "" {
			current.Password = hash
		}

		return tx.Save(ctx, current)
	})
}

// Delete removes skater id after checking password. The row is committed
// first; the photo is then removed best effort and a failure only logged.
func (s *Service) Delete(ctx context.Context, id uint, password string) error {
	if password == "" {
		return fmt.Errorf("%w: missing password", ErrValidation)
	}

	var foto string
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		current, err := tx.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrInvalidCredentials
			}
			return err
		}
		if !utils.VerifyPassword(password, current.Password) {
			return ErrInvalidCredentials
		}
		if err := tx.Delete(ctx, id); err != nil {
			return err
		}
		foto = current.Foto
		return nil
	})
	if err != nil {
		return err
	}

	metrics.AccountsDeletedTotal.Inc()
	s.removePhoto(foto)
	s.log.Info().Uint("skater_id", id).Msg("skater deleted")
	return nil
}

func (s *Service) removePhoto(key string) {
	if key == "" {
		return
	}
	if err := s.media.DeleteFile(key); err != nil {
		metrics.PhotoCleanupFailuresTotal.Inc()
		s.log.Warn().Err(err).Str("foto", key).Msg("failed to remove photo")
	}
}

// SetStatus changes the approval state of skater id. A nil target flips the
// current state. The new state is returned.
func (s *Service) SetStatus(ctx context.Context, id uint, target *bool) (bool, error) {
	if id == 0 {
		return false, fmt.Errorf("%w: missing id", ErrValidation)
	}

	var (
		estado  bool
		changed bool
		skater  database.Skater
	)
	err := s.repo.WithTx(ctx, func(tx Repository) error {
		current, err := tx.LockByID(ctx, id)
		if err != nil {
			return err
		}

		estado = !current.Estado
		if target != nil {
			estado = *target
		}
		changed = estado != current.Estado
		skater = *current

		if !changed {
			return nil
		}
		return tx.SetStatus(ctx, id, estado)
	})
	if err != nil {
		return false, err
	}

	if changed {
		metrics.StatusChangesTotal.WithLabelValues(strconv.FormatBool(estado)).Inc()
		s.log.Info().Uint("skater_id", id).Bool("estado", estado).Msg("skater status changed")
		if estado {
			s.notifyApproved(&skater)
		}
	}
	return estado, nil
}

func (s *Service) notifyApproved(skater *database.Skater) {
	message := mail.Email{
		Subject: "Tu cuenta de Skate Park fue aprobada",
		Body:    fmt.Sprintf("Hola %s, un administrador aprobó tu cuenta. ¡Nos vemos en la pista!", skater.Nombre),
		From:    s.mailFrom,
		To:      []string{skater.Email},
	}
	if err := s.mailer.SendMail(&message); err != nil {
		s.log.Warn().Err(err).Uint("skater_id", skater.ID).Msg("failed to send approval email")
	}
}

func (s *Service) List(ctx context.Context) ([]database.Skater, error) {
	return s.repo.List(ctx)
}

// Overview is the listing shown on the home page with approval counts. The
// counts are taken from the same listing so they always add up to it.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	skaters, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if skaters == nil {
		skaters = []database.Skater{}
	}

	count := CountByStatus(skaters)
	return &Overview{
		Skaters:    skaters,
		Aprobados:  count.Aprobados,
		EnRevision: count.EnRevision,
	}, nil
}

type StatusCount struct {
	Aprobados  int64 `json:"aprobados"`
	EnRevision int64 `json:"en_revision"`
}

func CountByStatus(skaters []database.Skater) StatusCount {
	var count StatusCount
	for _, s := range skaters {
		if s.Estado {
			count.Aprobados++
		} else {
			count.EnRevision++
		}
	}
	return count
}

func (s *Service) IsAdmin(ctx context.Context, id uint) (bool, error) {
	return s.repo.IsAdmin(ctx, id)
}

// SetAdmin grants or revokes the admin role of the skater with email.
func (s *Service) SetAdmin(ctx context.Context, email string, active bool) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: missing email", ErrValidation)
	}
	return s.repo.SetAdmin(ctx, email, active)
}

// Photo returns the stored photo for key.
func (s *Service) Photo(key string) ([]byte, error) {
	content, err := s.media.GetFile(key)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrMedia, err)
	}
	return content, nil
}
