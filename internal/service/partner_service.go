package service

import (
	"strings"

	"go-pos-inventory/internal/apperr"
	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/model"
	"go-pos-inventory/internal/repository"

	"github.com/google/uuid"
)

// PartnerService manages suppliers and customers
type PartnerService interface {
	CreateSupplier(req *SupplierRequest, actor *auth.Identity) (*model.Supplier, error)
	UpdateSupplier(id uuid.UUID, req *SupplierRequest, actor *auth.Identity) (*model.Supplier, error)
	DeleteSupplier(id uuid.UUID) error
	GetSupplier(id uuid.UUID) (*model.Supplier, error)
	GetAllSuppliers(search string) ([]model.Supplier, error)

	CreateCustomer(req *CustomerRequest, actor *auth.Identity) (*model.Customer, error)
	UpdateCustomer(id uuid.UUID, req *CustomerRequest, actor *auth.Identity) (*model.Customer, error)
	DeleteCustomer(id uuid.UUID, actor *auth.Identity) error
	GetCustomer(id uuid.UUID) (*model.Customer, error)
	GetAllCustomers(search string) ([]model.Customer, error)
}

type SupplierRequest struct {
	Name          string `json:"name" validate:"required,max=255"`
	ContactPerson string `json:"contact_person" validate:"max=255"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone" validate:"max=30"`
	Address       string `json:"address"`
	TaxNumber     string `json:"tax_number" validate:"max=50"`
}

type CustomerRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"max=30"`
	Address string `json:"address"`
}

type partnerService struct {
	supplierRepo repository.SupplierRepository
	customerRepo repository.CustomerRepository
}

func NewPartnerService(supplierRepo repository.SupplierRepository, customerRepo repository.CustomerRepository) PartnerService {
	return &partnerService{
		supplierRepo: supplierRepo,
		customerRepo: customerRepo,
	}
}

func (s *partnerService) CreateSupplier(req *SupplierRequest, actor *auth.Identity) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	supplier := &model.Supplier{}
	applySupplierRequest(supplier, req)
	supplier.CreatedBy = actorID(actor)
	supplier.UpdatedBy = actorID(actor)

	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, apperr.FromDB(err, "supplier")
	}
	return supplier, nil
}

func (s *partnerService) UpdateSupplier(id uuid.UUID, req *SupplierRequest, actor *auth.Identity) (*model.Supplier, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "supplier")
	}

	applySupplierRequest(supplier, req)
	supplier.UpdatedBy = actorID(actor)
	if err := s.supplierRepo.Update(supplier); err != nil {
		return nil, apperr.FromDB(err, "supplier")
	}
	return supplier, nil
}

func (s *partnerService) DeleteSupplier(id uuid.UUID) error {
	if _, err := s.supplierRepo.FindByID(id); err != nil {
		return apperr.FromDB(err, "supplier")
	}

	referenced, err := s.supplierRepo.IsReferenced(id)
	if err != nil {
		return apperr.Internal(err)
	}
	if referenced {
		return apperr.Validation("supplier has purchases and cannot be deleted")
	}

	if err := s.supplierRepo.Delete(id); err != nil {
		return apperr.FromDB(err, "supplier")
	}
	return nil
}

func (s *partnerService) GetSupplier(id uuid.UUID) (*model.Supplier, error) {
	supplier, err := s.supplierRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "supplier")
	}
	return supplier, nil
}

func (s *partnerService) GetAllSuppliers(search string) ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindAll(strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return suppliers, nil
}

func (s *partnerService) CreateCustomer(req *CustomerRequest, actor *auth.Identity) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer := &model.Customer{}
	applyCustomerRequest(customer, req)
	customer.CreatedBy = actorID(actor)
	customer.UpdatedBy = actorID(actor)

	if err := s.customerRepo.Create(customer); err != nil {
		return nil, apperr.FromDB(err, "customer")
	}
	return customer, nil
}

func (s *partnerService) UpdateCustomer(id uuid.UUID, req *CustomerRequest, actor *auth.Identity) (*model.Customer, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "customer")
	}

	applyCustomerRequest(customer, req)
	customer.UpdatedBy = actorID(actor)
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, apperr.FromDB(err, "customer")
	}
	return customer, nil
}

// DeleteCustomer soft deletes so past sales keep their customer
func (s *partnerService) DeleteCustomer(id uuid.UUID, actor *auth.Identity) error {
	if _, err := s.customerRepo.FindByID(id); err != nil {
		return apperr.FromDB(err, "customer")
	}
	if err := s.customerRepo.Delete(id, actorID(actor)); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *partnerService) GetCustomer(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromDB(err, "customer")
	}
	return customer, nil
}

func (s *partnerService) GetAllCustomers(search string) ([]model.Customer, error) {
	customers, err := s.customerRepo.FindAll(strings.TrimSpace(search))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return customers, nil
}

func applySupplierRequest(supplier *model.Supplier, req *SupplierRequest) {
	supplier.Name = strings.TrimSpace(req.Name)
	supplier.ContactPerson = req.ContactPerson
	supplier.Email = strings.TrimSpace(req.Email)
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.TaxNumber = req.TaxNumber
}

func applyCustomerRequest(customer *model.Customer, req *CustomerRequest) {
	customer.Name = strings.TrimSpace(req.Name)
	customer.Email = strings.TrimSpace(req.Email)
	customer.Phone = req.Phone
	customer.Address = req.Address
}
