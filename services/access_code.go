package services

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/klararety/telehealth/db"
	"github.com/klararety/telehealth/models"
	"github.com/klararety/telehealth/redis"
	"github.com/klararety/telehealth/utils"
)

const (
	accessCodeLength = 6
	defaultAccessTTL = 15 * time.Minute
	accessCodeTTLVar = "ACCESS_CODE_TTL_MINUTES"
)

// AccessCodeTTL is the canonical expiry window for join access codes.
func AccessCodeTTL() time.Duration {
	if v := os.Getenv(accessCodeTTLVar); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultAccessTTL
}

// RequestAccessCode generates a fresh single-use join code, stores it with
// its expiry, and emails it to the patient. The code is retained even when
// dispatch fails so a retry does not regenerate it. The returned bool is the
// dispatch outcome.
func RequestAccessCode(consultationID uint) (bool, error) {
	var consultation models.Consultation
	err := db.DB.Preload("Appointment.Patient").Preload("Appointment.Provider").
		First(&consultation, consultationID).Error
	if err != nil {
		return false, ErrNotFound
	}

	patient := consultation.Appointment.Patient
	if patient.Email == "" {
		return false, &ValidationError{Msg: "patient has no email address"}
	}

	ttl := AccessCodeTTL()
	code := utils.GenerateAccessCode(accessCodeLength)
	consultation.SetAccessCode(code, time.Now().Add(ttl))
	if err := db.DB.Omit("Appointment").Save(&consultation).Error; err != nil {
		return false, err
	}

	provider := consultation.Appointment.Provider
	p := AccessCodeEmail(&patient, &provider, consultation.Appointment.ScheduledTime, code, ttl)
	if err := SendEmail(p.To, p.Subject, p.HTMLBody, p.TextBody); err != nil {
		log.Printf("Failed to send access code for consultation %d: %v", consultation.ID, err)
		return false, nil
	}
	return true, nil
}

// VerifyAccessCode checks the submitted code. On success the code is
// consumed and a one-time join ticket is minted; on any failure the stored
// code is left untouched so the patient may retry until expiry.
func VerifyAccessCode(consultationID uint, code string) (string, bool, error) {
	var consultation models.Consultation
	valid := false
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		// Lock the row so concurrent submissions serialize: the first one
		// consumes the code, the second sees it already cleared.
		if err := tx.Raw(`
			SELECT *
			FROM consultations
			WHERE id = ? AND deleted_at IS NULL
			FOR UPDATE
		`, consultationID).Scan(&consultation).Error; err != nil {
			return err
		}
		if consultation.ID == 0 {
			return ErrNotFound
		}

		if !consultation.VerifyAccessCode(code, time.Now()) {
			return nil
		}
		valid = true
		return tx.Omit("Appointment").Save(&consultation).Error
	})
	if err != nil {
		return "", false, err
	}
	if !valid {
		return "", false, nil
	}

	ticket := uuid.NewString()
	if err := redis.StoreJoinTicket(ticket, consultation.ID, AccessCodeTTL()); err != nil {
		// Verification already succeeded; the caller just won't get a ticket.
		log.Printf("Failed to store join ticket for consultation %d: %v", consultation.ID, err)
		return "", true, nil
	}
	return ticket, true, nil
}
