package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/facecheck/attendance-api/internal/core/ports"
)

// EmployeeHandler handles the employee directory and face enrollment.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /api/employees.
//
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "active or inactive"
// @Param        q       query     string  false  "Search name, email or code"
// @Success      200     {object}  Response{data=[]domain.Employee}
// @Failure      400     {object}  Response
// @Failure      503     {object}  Response
// @Router       /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	employees, err := h.service.List(c.Request().Context(), ports.EmployeeFilter{
		Status: strings.TrimSpace(c.QueryParam("status")),
		Search: strings.TrimSpace(c.QueryParam("q")),
	})
	if err != nil {
		return err
	}
	return ok(c, employees)
}

// Get handles GET /api/employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  Response{data=domain.Employee}
// @Failure      404  {object}  Response
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	e, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, e)
}

// Create handles POST /api/employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEmployeeRequest  true  "Employee details"
// @Success      201   {object}  Response{data=domain.Employee}
// @Failure      400   {object}  Response
// @Failure      409   {object}  Response
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req createEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.service.Create(c.Request().Context(), toCreateEmployeeInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Response{Success: true, Message: "Employee created", Data: e})
}

// Update handles PATCH /api/employees/:id.
//
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Employee id"
// @Param        body  body      updateEmployeeRequest  true  "Fields to change"
// @Success      200   {object}  Response{data=domain.Employee}
// @Failure      400   {object}  Response
// @Failure      404   {object}  Response
// @Failure      409   {object}  Response
// @Router       /employees/{id} [patch]
func (h *EmployeeHandler) Update(c echo.Context) error {
	var req updateEmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	e, err := h.service.Update(c.Request().Context(), c.Param("id"), toEmployeeUpdate(req))
	if err != nil {
		return err
	}
	return okMessage(c, "Employee updated", e)
}

// Delete handles DELETE /api/employees/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  Response
// @Failure      404  {object}  Response
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return okMessage(c, "Employee deleted", nil)
}

// Enroll handles POST /api/employees/:id/enroll.
//
// @Summary      Enroll an employee's face
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Employee id"
// @Param        body  body      enrollRequest  true  "Base64 image"
// @Success      200   {object}  Response{data=enrollResponse}
// @Failure      400   {object}  Response
// @Failure      404   {object}  Response
// @Failure      502   {object}  Response
// @Router       /employees/{id}/enroll [post]
func (h *EmployeeHandler) Enroll(c echo.Context) error {
	var req enrollRequest
	if err := c.Bind(&req); err != nil {
		return invalidInput("Invalid request body", err)
	}

	res, err := h.service.EnrollFace(c.Request().Context(), c.Param("id"), req.Image)
	if err != nil {
		return err
	}
	return okMessage(c, res.Message, enrollResponse{
		EmployeeID:   res.Employee.ID,
		FaceIdentity: res.FaceIdentity,
	})
}
