package rental

import (
	"context"

	"github.com/gdi/rental-backend/internal/domain/rental"
	"github.com/gdi/rental-backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContractService exposes read access to rental contracts. Contracts are
// created and transitioned exclusively by the order flow.
type ContractService struct {
	contractRepo rental.ContractRepository
}

// NewContractService creates a new ContractService
func NewContractService(contractRepo rental.ContractRepository) *ContractService {
	return &ContractService{contractRepo: contractRepo}
}

// GetByID retrieves a contract by ID
func (s *ContractService) GetByID(ctx context.Context, contractID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		return nil, err
	}
	response := ToContractResponse(contract)
	return &response, nil
}

// GetByOrder retrieves the contract generated for a rental order
func (s *ContractService) GetByOrder(ctx context.Context, orderID uuid.UUID) (*ContractResponse, error) {
	contract, err := s.contractRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	response := ToContractResponse(contract)
	return &response, nil
}

// List retrieves contracts with filtering and pagination
func (s *ContractService) List(ctx context.Context, filter ContractListFilter) (*shared.Paginated[ContractResponse], error) {
	domainFilter := buildFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.CounterpartyID != nil {
		domainFilter.Filters["counterparty_id"] = *filter.CounterpartyID
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	contracts, err := s.contractRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	total, err := s.contractRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ContractResponse, 0, len(contracts))
	for i := range contracts {
		items = append(items, ToContractResponse(&contracts[i]))
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}
