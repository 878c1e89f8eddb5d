package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/consts"
	"KolBD/internal/pkg/util"
	"KolBD/internal/repository"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

type ContactService interface {
	ListContacts(ctx context.Context, userID uint64, query *dto.ContactQueryDTO) (*dto.PageDTO[*dto.ContactDTO], error)
	GetContact(ctx context.Context, userID, id uint64) (*dto.ContactDTO, error)
	CreateContact(ctx context.Context, userID uint64, dto *dto.CreateContactDTO) (*dto.ContactDTO, error)
	UpdateContact(ctx context.Context, userID, id uint64, dto *dto.UpdateContactDTO) (*dto.ContactDTO, error)
	DeleteContact(ctx context.Context, userID, id uint64) error
}

type ContactServiceImpl struct {
	contactRepo  repository.ContactLogRepo
	kolRepo      repository.KOLRepo
	templateRepo repository.TemplateRepo
	now          func() time.Time
}

func NewContactService(contactRepo repository.ContactLogRepo, kolRepo repository.KOLRepo, templateRepo repository.TemplateRepo) ContactService {
	return &ContactServiceImpl{
		contactRepo:  contactRepo,
		kolRepo:      kolRepo,
		templateRepo: templateRepo,
		now:          time.Now,
	}
}

func (s *ContactServiceImpl) ListContacts(ctx context.Context, userID uint64, query *dto.ContactQueryDTO) (*dto.PageDTO[*dto.ContactDTO], error) {
	query.Normalize(consts.DefaultPageSize)
	filter := &repository.ContactFilter{
		Page:   repository.Page{Page: query.Page, Limit: query.Limit},
		KOLID:  query.KOLID,
		Status: query.Status,
	}
	contacts, total, err := s.contactRepo.ListContacts(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.ContactDTO, 0, len(contacts))
	for _, c := range contacts {
		contactDTO, err := toContactDTO(c)
		if err != nil {
			return nil, err
		}
		items = append(items, contactDTO)
	}
	return dto.NewPage(items, total, query.Page, query.Limit), nil
}

func (s *ContactServiceImpl) GetContact(ctx context.Context, userID, id uint64) (*dto.ContactDTO, error) {
	contact, err := s.getContact(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toContactDTO(contact)
}

// CreateContact 记录一次外联，KOL 与模板都必须属于当前用户
func (s *ContactServiceImpl) CreateContact(ctx context.Context, userID uint64, createDTO *dto.CreateContactDTO) (*dto.ContactDTO, error) {
	kol, err := s.kolRepo.GetKOLById(ctx, userID, createDTO.KOLID)
	if err != nil {
		return nil, err
	}
	if kol == nil {
		return nil, ErrKOLNotFound
	}
	if createDTO.TemplateID != nil {
		template, err := s.templateRepo.GetTemplateById(ctx, userID, *createDTO.TemplateID)
		if err != nil {
			return nil, err
		}
		if template == nil {
			return nil, ErrTemplateNotFound
		}
	}

	contact := &model.ContactLog{
		KOLID:          createDTO.KOLID,
		TemplateID:     createDTO.TemplateID,
		UserID:         userID,
		MessageContent: createDTO.MessageContent,
		ContactType:    model.ContactDM,
		Status:         model.ContactSent,
		SentAt:         s.now(),
		Notes:          createDTO.Notes,
	}
	if createDTO.ContactType != nil {
		contact.ContactType = *createDTO.ContactType
	}
	if createDTO.SentAt != nil {
		contact.SentAt = *createDTO.SentAt
	}

	if err = s.contactRepo.CreateContact(ctx, contact); err != nil {
		return nil, err
	}
	return s.GetContact(ctx, userID, contact.ID)
}

// UpdateContact 首次转为 replied 时记录回复时间，模板成功数只累加一次
func (s *ContactServiceImpl) UpdateContact(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateContactDTO) (*dto.ContactDTO, error) {
	contact, err := s.getContact(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	// replied_at 只能出现在 replied 状态上，否则会吞掉之后真正的回复计数
	status := contact.Status
	if updateDTO.Status != nil {
		status = *updateDTO.Status
	}
	if updateDTO.RepliedAt != nil && status != model.ContactReplied {
		return nil, &util.ValidationError{Field: "RepliedAt", Tag: "status_replied"}
	}

	updates := make(map[string]any)
	replied := false
	if updateDTO.Status != nil && *updateDTO.Status != contact.Status {
		updates["status"] = *updateDTO.Status
		if *updateDTO.Status == model.ContactReplied && contact.RepliedAt == nil {
			replied = true
			repliedAt := s.now()
			if updateDTO.RepliedAt != nil {
				repliedAt = *updateDTO.RepliedAt
			}
			updates["replied_at"] = repliedAt
		}
	}
	if updateDTO.RepliedAt != nil && !replied {
		updates["replied_at"] = *updateDTO.RepliedAt
	}
	if updateDTO.ResponseContent != nil {
		updates["response_content"] = *updateDTO.ResponseContent
	}
	if updateDTO.Sentiment != nil {
		updates["sentiment"] = *updateDTO.Sentiment
	}
	if updateDTO.Notes != nil {
		updates["notes"] = *updateDTO.Notes
	}

	if err = s.contactRepo.UpdateContact(ctx, contact, updates, replied); err != nil {
		return nil, err
	}
	return s.GetContact(ctx, userID, id)
}

func (s *ContactServiceImpl) DeleteContact(ctx context.Context, userID, id uint64) error {
	affected, err := s.contactRepo.DeleteContact(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (s *ContactServiceImpl) getContact(ctx context.Context, userID, id uint64) (*model.ContactLog, error) {
	contact, err := s.contactRepo.GetContactById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

func toContactDTO(contact *model.ContactLog) (*dto.ContactDTO, error) {
	plain := *contact
	plain.KOL, plain.Template = nil, nil

	contactDTO := &dto.ContactDTO{}
	if err := copier.Copy(contactDTO, &plain); err != nil {
		return nil, err
	}
	if d, ok := contact.ResponseTime(); ok {
		hours := util.Round1(d.Hours())
		contactDTO.ResponseHours = &hours
	}
	if contact.KOL != nil {
		contactDTO.KOL = &dto.ContactKOLDTO{
			ID:          contact.KOL.ID,
			Username:    contact.KOL.Username,
			DisplayName: contact.KOL.DisplayName,
		}
	}
	if contact.Template != nil {
		contactDTO.Template = &dto.ContactTemplateDTO{
			ID:   contact.Template.ID,
			Name: contact.Template.Name,
		}
	}
	return contactDTO, nil
}
