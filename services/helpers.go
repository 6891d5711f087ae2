package services

import (
	"github.com/Dosada05/matchday/models"
	"github.com/Dosada05/matchday/storage"
)

func populateTeamEvidenceURL(team *models.Team, uploader storage.FileUploader) {
	if team == nil || uploader == nil {
		return
	}
	if team.PaymentEvidenceKey != nil && *team.PaymentEvidenceKey != "" {
		url := uploader.GetPublicURL(*team.PaymentEvidenceKey)
		if url != "" {
			team.PaymentEvidenceURL = &url
		}
	}
}
