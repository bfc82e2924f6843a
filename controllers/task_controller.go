package controller

import (
	"log"
	"time"

	"agencydesk/models"
	"agencydesk/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewTaskController(db *gorm.DB, logger *log.Logger) *TaskController {
	return &TaskController{
		DB:     db,
		Logger: logger,
	}
}

// CreateTask adds a card to a board lane, appended at the end of the lane
func (tc *TaskController) CreateTask(c *fiber.Ctx) error {
	var input struct {
		ClientID    *uint      `json:"client_id"`
		Title       string     `json:"title" validate:"required,max=300"`
		Description string     `json:"description" validate:"omitempty,max=5000"`
		Status      string     `json:"status" validate:"omitempty,oneof=todo in_progress review done"`
		Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
		Assignee    string     `json:"assignee" validate:"omitempty,max=200"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if input.Status == "" {
		input.Status = "todo"
	}
	if input.Priority == "" {
		input.Priority = "medium"
	}

	var maxPos int
	tc.DB.Model(&models.Task{}).Where("status = ?", input.Status).
		Select("COALESCE(MAX(position), -1)").Scan(&maxPos)

	task := models.Task{
		ClientID:    input.ClientID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		Position:    maxPos + 1,
		Assignee:    input.Assignee,
		DueDate:     input.DueDate,
	}
	if err := tc.DB.Create(&task).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create task", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(task))
}

// GetTasks lists board cards ordered by lane position
func (tc *TaskController) GetTasks(c *fiber.Ctx) error {
	query := tc.DB.Model(&models.Task{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID := c.Query("client_id"); clientID != "" {
		query = query.Where("client_id = ?", utils.ParseUint(clientID))
	}

	var tasks []models.Task
	if err := query.Order("status ASC, position ASC").Find(&tasks).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch tasks", err)
	}
	return c.JSON(utils.SuccessResponse(tasks))
}

// UpdateTask updates card fields without moving it between lanes
func (tc *TaskController) UpdateTask(c *fiber.Ctx) error {
	var task models.Task
	if err := tc.DB.First(&task, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var input struct {
		Title       *string    `json:"title" validate:"omitempty,max=300"`
		Description *string    `json:"description" validate:"omitempty,max=5000"`
		Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
		Assignee    *string    `json:"assignee" validate:"omitempty,max=200"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}
	if input.Assignee != nil {
		updates["assignee"] = *input.Assignee
	}
	if input.DueDate != nil {
		updates["due_date"] = *input.DueDate
	}

	if len(updates) > 0 {
		if err := tc.DB.Model(&task).Updates(updates).Error; err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update task", err)
		}
	}

	return c.JSON(utils.SuccessResponse(task))
}

// MoveTask moves a card to a lane and position, shifting the cards below it.
// Moving into "done" stamps CompletedAt; moving out clears it.
func (tc *TaskController) MoveTask(c *fiber.Ctx) error {
	var task models.Task
	if err := tc.DB.First(&task, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	var input struct {
		Status   string `json:"status" validate:"required,oneof=todo in_progress review done"`
		Position int    `json:"position" validate:"omitempty,gte=0"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		// Close the gap in the old lane
		if err := tx.Model(&models.Task{}).
			Where("status = ? AND position > ?", task.Status, task.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error; err != nil {
			return err
		}
		// Open a slot in the target lane
		if err := tx.Model(&models.Task{}).
			Where("status = ? AND position >= ? AND id <> ?", input.Status, input.Position, task.ID).
			UpdateColumn("position", gorm.Expr("position + 1")).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":   input.Status,
			"position": input.Position,
		}
		if input.Status == "done" && task.Status != "done" {
			updates["completed_at"] = time.Now().UTC()
		} else if input.Status != "done" && task.Status == "done" {
			updates["completed_at"] = nil
		}
		return tx.Model(&task).Updates(updates).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to move task", err)
	}

	return c.JSON(utils.SuccessResponse(task))
}

// DeleteTask removes a card and closes its lane gap
func (tc *TaskController) DeleteTask(c *fiber.Ctx) error {
	var task models.Task
	if err := tc.DB.First(&task, c.Params("id")).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Task not found", nil)
	}

	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&task).Error; err != nil {
			return err
		}
		return tx.Model(&models.Task{}).
			Where("status = ? AND position > ?", task.Status, task.Position).
			UpdateColumn("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete task", err)
	}

	return c.JSON(utils.SuccessResponse(fiber.Map{"deleted": true}))
}
