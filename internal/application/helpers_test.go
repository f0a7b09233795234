package application

import (
	repo "github.com/bloodlink/bloodlink-backend/internal/domain/repository"
)

func repoPage(number, limit int) repo.Page {
	return repo.Page{Number: number, Limit: limit}
}

func donationFilter() repo.DonationFilter {
	return repo.DonationFilter{}
}
