package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/dtnghia/syllabus-backend/models"
	"github.com/dtnghia/syllabus-backend/utils"
)

type CreateSubjectInput struct {
	Name   string  `json:"name" binding:"required"`
	Code   *string `json:"code"`
	Branch string  `json:"branch"`
	Year   int     `json:"year"`
}

// POST /api/admin/subjects
func CreateSubject(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateSubjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "subject name is required"})
		return
	}

	// Subject codes are unique when present.
	if input.Code != nil && *input.Code != "" {
		var count int64
		db.Model(&models.Subject{}).Where("code = ?", *input.Code).Count(&count)
		if count > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "subject code already exists"})
			return
		}
	} else {
		input.Code = nil
	}

	subject := models.Subject{
		Name:   strings.TrimSpace(input.Name),
		Code:   input.Code,
		Branch: input.Branch,
		Year:   input.Year,
		Units:  models.UnitList{},
	}

	if err := db.Create(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create subject"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "subject created",
		"subject": subject,
	})
}

// GET /api/subjects
func GetSubjects(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	query := db.Model(&models.Subject{})

	if branch := c.Query("branch"); branch != "" {
		query = query.Where("branch = ?", branch)
	}
	if yearStr := c.Query("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			query = query.Where("year = ?", year)
		}
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot count subjects"})
		return
	}

	var subjects []models.Subject
	if err := query.
		Order("year ASC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&subjects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list subjects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  subjects,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GET /api/subjects/:id
func GetSubjectDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subject": subject})
}

// POST /api/admin/subjects/:id/image
// Multipart upload; the public URL lands on the subject.
func UploadSubjectImage(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subject id"})
		return
	}

	var subject models.Subject
	if err := db.First(&subject, "id = ?", subjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}

	fileID := slug.Make(subject.Name) + "-" + subject.ID.String()
	publicURL, err := utils.UploadImageToSupabase(fileHeader, fileID)
	if err != nil {
		respondError(c, err)
		return
	}

	subject.ImageURL = publicURL
	if err := db.Save(&subject).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot save subject"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "image uploaded",
		"image_url": publicURL,
	})
}
