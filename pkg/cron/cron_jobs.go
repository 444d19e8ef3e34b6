package cron

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"homeledger/internal/households"
	"homeledger/internal/models"
	doc "homeledger/internal/repositories/docstore"
	"homeledger/pkg/utils"
)

func StartCronJob(store doc.Store, directory *households.Directory, baseURL string, mailEnabled bool) *cron.Cron {
	c := cron.New()

	// Runs every 6 hours — check expired invitations
	_, err := c.AddFunc("0 */6 * * *", func() {
		err := CheckAndUpdateExpiredInvitations(store)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to update expired invitations: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule invitation expiration job: %v", err)
	}

	// Runs daily at midnight — remind invitees whose invite is about to lapse
	_, err = c.AddFunc("0 0 * * *", func() {
		err := SendReminderEmailsToPendingInvitees(store, directory, baseURL, mailEnabled)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send reminder emails: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule invite reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (invitation expiry every 6h, invite reminders daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Check and update expired household invitations
// -------------------------------------------------------------
func CheckAndUpdateExpiredInvitations(store doc.Store) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	docs, err := store.Query(ctx, models.CollectionInvitations,
		doc.Eq("status", models.InviteStatusPending))
	if err != nil {
		return err
	}

	now := time.Now()
	expired := 0
	for _, d := range docs {
		invite, err := models.DecodeInvitation(d)
		if err != nil {
			utils.Logger.Errorf("Failed to decode invitation: %v", err)
			continue
		}
		if !invite.Expired(now) {
			continue
		}
		patch := doc.Document{"status": models.InviteStatusExpired}
		if err := store.Update(ctx, models.CollectionInvitations, invite.ID, patch); err != nil {
			utils.Logger.Errorf("Failed to expire invitation %s: %v", invite.ID, err)
			continue
		}
		expired++
	}

	if expired > 0 {
		utils.Logger.Infof("Updated %d expired invitations to status 'expired'", expired)
	}
	return nil
}

// -------------------------------------------------------------
// Remind invitees in the last day before their invite expires.
// Each reminder rotates the token, so only the newest link works.
// -------------------------------------------------------------
func SendReminderEmailsToPendingInvitees(store doc.Store, directory *households.Directory, baseURL string, mailEnabled bool) error {
	if !mailEnabled {
		utils.Logger.Debug("mail not configured, skipping invite reminders")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	docs, err := store.Query(ctx, models.CollectionInvitations,
		doc.Eq("status", models.InviteStatusPending))
	if err != nil {
		return err
	}

	now := time.Now()

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for _, d := range docs {
		invite, err := models.DecodeInvitation(d)
		if err != nil {
			utils.Logger.Errorf("Failed to decode invitation: %v", err)
			continue
		}
		if invite.Expired(now) || invite.ExpiresAt.Sub(now) > 24*time.Hour {
			continue
		}

		hh, err := directory.Household(ctx, invite.HouseholdID)
		if err != nil {
			utils.Logger.Errorf("Failed to load household for invitation %s: %v", invite.ID, err)
			continue
		}

		token, err := utils.GenerateRandomString(32)
		if err != nil {
			utils.Logger.Errorf("Failed to generate token for invitation %s: %v", invite.ID, err)
			continue
		}
		tokenBytes, err := hex.DecodeString(token)
		if err != nil {
			utils.Logger.Errorf("Failed to decode token for invitation %s: %v", invite.ID, err)
			continue
		}
		hashed := sha256.Sum256(tokenBytes)

		patch := doc.Document{"tokenHash": hex.EncodeToString(hashed[:])}
		if err := store.Update(ctx, models.CollectionInvitations, invite.ID, patch); err != nil {
			utils.Logger.Errorf("Failed to rotate token for invitation %s: %v", invite.ID, err)
			continue
		}

		acceptURL := fmt.Sprintf("%s/households/member/accept/%s/invite", baseURL, token)

		wg.Add(1)
		go func(email, householdName, link string, expiresAt time.Time) {
			defer wg.Done()

			if err := utils.SendInviteReminderEmail(email, householdName, link, expiresAt); err != nil {
				errChan <- fmt.Errorf("failed to send reminder email to %s: %v", email, err)
				return
			}

			utils.Logger.Infof("📧 Sent invite reminder to %s for '%s'", email, householdName)
		}(invite.Email, hh.Name, acceptURL, invite.ExpiresAt)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	utils.Logger.Info("✅ Finished sending all invite reminder emails.")
	return nil
}
