package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/repository"
	"github.com/amanmukri03/trello-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// nopBroadcaster drops events; handler tests don't assert on broadcasts.
type nopBroadcaster struct{}

func (nopBroadcaster) Publish(boardID uint64, event string, data any) {}

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	// Create in-memory SQLite database
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	// Run migrations
	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.BoardMember{},
		&models.Column{},
		&models.Task{},
		&models.TimerSession{},
	)
	suite.Require().NoError(err)

	taskService := services.NewTaskService(
		repository.NewTaskRepository(suite.db),
		repository.NewBoardRepository(suite.db),
		repository.NewUserRepository(suite.db),
		nopBroadcaster{},
	)
	suite.handler = NewTaskHandler(taskService)

	// Set Gin to test mode
	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// Helper function to create test data
func (suite *TaskHandlerTestSuite) createTestUser(name, email string, role models.Role) *models.User {
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "hashedpassword",
		Role:         role,
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestBoard(name string, creatorID uint64) *models.Board {
	board := &models.Board{
		Name:        name,
		CreatedByID: creatorID,
	}
	suite.db.Create(board)
	return board
}

func (suite *TaskHandlerTestSuite) createTestColumn(name string, boardID uint64) *models.Column {
	column := &models.Column{
		Name:    name,
		BoardID: boardID,
	}
	suite.db.Create(column)
	return column
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, boardID, columnID, creatorID uint64, assigneeID *uint64) *models.Task {
	task := &models.Task{
		Title:        title,
		BoardID:      boardID,
		ColumnID:     columnID,
		CreatedByID:  creatorID,
		AssignedToID: assigneeID,
		Priority:     models.PriorityMedium,
	}
	suite.db.Create(task)
	return task
}

// Helper function to create authenticated context
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", user.ID)
	c.Set("user_role", user.Role)

	return c, w
}

func (suite *TaskHandlerTestSuite) setIDParam(c *gin.Context, id uint64) {
	c.Params = gin.Params{{Key: "id", Value: strconv.FormatUint(id, 10)}}
}

// TestCreateTask_Success tests successful task creation
func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)

	requestBody := map[string]interface{}{
		"title":    "New Task",
		"boardId":  board.ID,
		"columnId": column.ID,
		"priority": "High",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New Task", response["title"])
	assert.Equal(suite.T(), "High", response["priority"])
	assert.Contains(suite.T(), response, "timer")

	timer := response["timer"].(map[string]interface{})
	assert.Equal(suite.T(), false, timer["isRunning"])
	assert.Equal(suite.T(), float64(0), timer["totalSeconds"])
}

// TestCreateTask_MissingFields tests creation without required fields
func (suite *TaskHandlerTestSuite) TestCreateTask_MissingFields() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)

	requestBody := map[string]interface{}{
		"description": "No title, board or column",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, manager)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Missing required fields!", response["message"])
}

// TestCreateTask_MemberForbidden tests creation by a Member
func (suite *TaskHandlerTestSuite) TestCreateTask_MemberForbidden() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	member := suite.createTestUser("Noor", "noor@example.com", models.RoleMember)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)

	requestBody := map[string]interface{}{
		"title":    "New Task",
		"boardId":  board.ID,
		"columnId": column.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/tasks", body, member)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCreateTask_Unauthorized tests creation without authentication
func (suite *TaskHandlerTestSuite) TestCreateTask_Unauthorized() {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/tasks", bytes.NewReader([]byte("{}")))
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestListTasks_MemberFiltered tests that Members only see their own tasks
func (suite *TaskHandlerTestSuite) TestListTasks_MemberFiltered() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	member := suite.createTestUser("Noor", "noor@example.com", models.RoleMember)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	suite.createTestTask("Mine", board.ID, column.ID, manager.ID, &member.ID)
	suite.createTestTask("Not mine", board.ID, column.ID, manager.ID, nil)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, member)
	suite.setIDParam(c, board.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response []map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), response, 1)
	assert.Equal(suite.T(), "Mine", response[0]["title"])
}

// TestListTasks_BoardNotFound tests listing against a missing board
func (suite *TaskHandlerTestSuite) TestListTasks_BoardNotFound() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)

	c, w := suite.createAuthContext("GET", "/api/tasks/999", nil, manager)
	suite.setIDParam(c, 999)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpdateTask_MemberRestrictedField tests the whole-patch rejection
func (suite *TaskHandlerTestSuite) TestUpdateTask_MemberRestrictedField() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	member := suite.createTestUser("Noor", "noor@example.com", models.RoleMember)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	task := suite.createTestTask("Mine", board.ID, column.ID, manager.ID, &member.ID)

	requestBody := map[string]interface{}{
		"priority": "High",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, member)
	suite.setIDParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	// The task is untouched.
	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Equal(suite.T(), models.PriorityMedium, stored.Priority)
}

// TestUpdateTask_MemberMovesTask tests a Member's permitted column move
func (suite *TaskHandlerTestSuite) TestUpdateTask_MemberMovesTask() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	member := suite.createTestUser("Noor", "noor@example.com", models.RoleMember)
	board := suite.createTestBoard("Launch", manager.ID)
	todo := suite.createTestColumn("Todo", board.ID)
	done := suite.createTestColumn("Done", board.ID)
	task := suite.createTestTask("Mine", board.ID, todo.ID, manager.ID, &member.ID)

	requestBody := map[string]interface{}{
		"columnId":    done.ID,
		"isCompleted": true,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, member)
	suite.setIDParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(done.ID), response["columnId"])
	assert.Equal(suite.T(), true, response["isCompleted"])
}

// TestUpdateTask_UnknownAssignee tests reassignment to a missing user
func (suite *TaskHandlerTestSuite) TestUpdateTask_UnknownAssignee() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	task := suite.createTestTask("Task", board.ID, column.ID, manager.ID, nil)

	requestBody := map[string]interface{}{
		"assignedTo": "nobody@example.com",
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", body, manager)
	suite.setIDParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

// TestUpdateTask_InvalidRequest tests update with malformed JSON
func (suite *TaskHandlerTestSuite) TestUpdateTask_InvalidRequest() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)

	c, w := suite.createAuthContext("PUT", "/api/tasks/1", []byte("invalid json"), manager)
	suite.setIDParam(c, 1)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestDeleteTask_Success tests successful task deletion
func (suite *TaskHandlerTestSuite) TestDeleteTask_Success() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	task := suite.createTestTask("Task to Delete", board.ID, column.ID, manager.ID, nil)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, manager)
	suite.setIDParam(c, task.ID)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Task deleted successfully", response["message"])

	// Verify task is deleted
	var deletedTask models.Task
	err = suite.db.First(&deletedTask, task.ID).Error
	assert.Error(suite.T(), err)
}

// TestDeleteTask_MemberForbidden tests deletion by a Member
func (suite *TaskHandlerTestSuite) TestDeleteTask_MemberForbidden() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	member := suite.createTestUser("Noor", "noor@example.com", models.RoleMember)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	task := suite.createTestTask("Protected", board.ID, column.ID, manager.ID, &member.ID)

	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, member)
	suite.setIDParam(c, task.ID)

	suite.handler.DeleteTask(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestTimer_StartStopStatus tests the timer round trip over HTTP
func (suite *TaskHandlerTestSuite) TestTimer_StartStopStatus() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	task := suite.createTestTask("Timed", board.ID, column.ID, manager.ID, nil)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/start-timer", nil, manager)
	suite.setIDParam(c, task.ID)
	suite.handler.StartTimer(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var started map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &started)
	assert.NoError(suite.T(), err)
	timer := started["timer"].(map[string]interface{})
	assert.Equal(suite.T(), true, timer["isRunning"])
	assert.NotNil(suite.T(), timer["startedAt"])

	c, w = suite.createAuthContext("POST", "/api/tasks/1/stop-timer", nil, manager)
	suite.setIDParam(c, task.ID)
	suite.handler.StopTimer(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var stopped map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &stopped)
	assert.NoError(suite.T(), err)
	timer = stopped["timer"].(map[string]interface{})
	assert.Equal(suite.T(), false, timer["isRunning"])
	sessions := timer["sessions"].([]interface{})
	assert.Len(suite.T(), sessions, 1)

	c, w = suite.createAuthContext("GET", "/api/tasks/1/timer", nil, manager)
	suite.setIDParam(c, task.ID)
	suite.handler.GetTimerStatus(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var status map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &status)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), false, status["isRunning"])
	assert.Contains(suite.T(), status, "totalSeconds")
	assert.Contains(suite.T(), status, "sessions")
}

// TestTimer_MemberNotAssigneeForbidden tests timer control by a non-assignee
func (suite *TaskHandlerTestSuite) TestTimer_MemberNotAssigneeForbidden() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)
	member := suite.createTestUser("Noor", "noor@example.com", models.RoleMember)
	board := suite.createTestBoard("Launch", manager.ID)
	column := suite.createTestColumn("Todo", board.ID)
	task := suite.createTestTask("Timed", board.ID, column.ID, manager.ID, &manager.ID)

	c, w := suite.createAuthContext("POST", "/api/tasks/1/start-timer", nil, member)
	suite.setIDParam(c, task.ID)

	suite.handler.StartTimer(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestGetTimerStatus_InvalidID tests timer status with a bad path parameter
func (suite *TaskHandlerTestSuite) TestGetTimerStatus_InvalidID() {
	manager := suite.createTestUser("Mira", "mira@example.com", models.RoleManager)

	c, w := suite.createAuthContext("GET", "/api/tasks/abc/timer", nil, manager)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	suite.handler.GetTimerStatus(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
