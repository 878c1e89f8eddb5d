package service

import (
	"KolBD/internal/api/dto"
	"KolBD/internal/model"
	"KolBD/internal/pkg/database"
	"KolBD/internal/repository"
	"context"
	"strings"
)

type TagService interface {
	ListTags(ctx context.Context, userID uint64) ([]*dto.TagDTO, error)
	GetTag(ctx context.Context, userID, id uint64) (*dto.TagDTO, error)
	CreateTag(ctx context.Context, userID uint64, dto *dto.CreateTagDTO) (*dto.TagDTO, error)
	UpdateTag(ctx context.Context, userID, id uint64, dto *dto.UpdateTagDTO) (*dto.TagDTO, error)
	DeleteTag(ctx context.Context, userID, id uint64) error
}

type TagServiceImpl struct {
	tagRepo repository.TagRepo
}

func NewTagService(tagRepo repository.TagRepo) TagService {
	return &TagServiceImpl{
		tagRepo: tagRepo,
	}
}

func (s *TagServiceImpl) ListTags(ctx context.Context, userID uint64) ([]*dto.TagDTO, error) {
	tags, err := s.tagRepo.ListTags(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TagDTO, 0, len(tags))
	for _, t := range tags {
		count := t.KOLCount
		out = append(out, toTagDTO(&t.Tag, &count))
	}
	return out, nil
}

func (s *TagServiceImpl) GetTag(ctx context.Context, userID, id uint64) (*dto.TagDTO, error) {
	tag, err := s.tagRepo.GetTagById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}
	return toTagDTO(tag, nil), nil
}

func (s *TagServiceImpl) CreateTag(ctx context.Context, userID uint64, createDTO *dto.CreateTagDTO) (*dto.TagDTO, error) {
	tag := &model.Tag{
		UserID: userID,
		Name:   strings.TrimSpace(createDTO.Name),
		Color:  model.DefaultTagColor,
	}
	if createDTO.Color != nil {
		tag.Color = *createDTO.Color
	}
	if err := s.tagRepo.CreateTag(ctx, tag); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrTagExist
		}
		return nil, err
	}
	return toTagDTO(tag, nil), nil
}

func (s *TagServiceImpl) UpdateTag(ctx context.Context, userID, id uint64, updateDTO *dto.UpdateTagDTO) (*dto.TagDTO, error) {
	tag, err := s.tagRepo.GetTagById(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, ErrTagNotFound
	}

	updates := make(map[string]any)
	if updateDTO.Name != nil {
		tag.Name = strings.TrimSpace(*updateDTO.Name)
		updates["name"] = tag.Name
	}
	if updateDTO.Color != nil {
		tag.Color = *updateDTO.Color
		updates["color"] = tag.Color
	}
	if err = s.tagRepo.UpdateTag(ctx, tag, updates); err != nil {
		if database.IsConstraint(err, database.UniqueViolation) {
			return nil, ErrTagExist
		}
		return nil, err
	}
	return toTagDTO(tag, nil), nil
}

func (s *TagServiceImpl) DeleteTag(ctx context.Context, userID, id uint64) error {
	affected, err := s.tagRepo.DeleteTag(ctx, userID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTagNotFound
	}
	return nil
}

func toTagDTO(tag *model.Tag, kolCount *int64) *dto.TagDTO {
	return &dto.TagDTO{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		KOLCount:  kolCount,
		CreatedAt: tag.CreatedAt,
	}
}
