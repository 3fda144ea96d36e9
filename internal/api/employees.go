package api

import (
	"context"
	"fmt"
	"strings"
)

// Employees lists all employees, active and inactive, by id.
func (c *Client) Employees(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	resp, err := c.req().SetContext(ctx).SetResult(&emps).Get("/api/employees")
	if err := check("list employees", resp, err); err != nil {
		return nil, err
	}
	return emps, nil
}

// AddEmployee creates an employee and returns the new id. The backend
// rejects duplicate employee codes with 409.
func (c *Client) AddEmployee(ctx context.Context, e NewEmployee) (int64, error) {
	if e.EmployeeCode == "" || e.Name == "" {
		return 0, fmt.Errorf("add employee: employee_code and name are required")
	}
	var out struct {
		ID int64 `json:"id"`
	}
	resp, err := c.req().SetContext(ctx).SetBody(e).SetResult(&out).Post("/api/employees")
	if err := check("add employee", resp, err); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateEmployee patches the given fields of an existing employee.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, e NewEmployee) error {
	resp, err := c.req().SetContext(ctx).SetBody(e).Put("/api/employees/" + itoa(id))
	return check("update employee", resp, err)
}

// DeleteEmployee removes an employee and all dependent records. The
// backend cascade is irreversible, so callers must confirm first.
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	resp, err := c.req().SetContext(ctx).Delete("/api/employees/" + itoa(id))
	return check("delete employee", resp, err)
}

// FaceTemplates lists the stored face templates for one employee.
func (c *Client) FaceTemplates(ctx context.Context, employeeID int64) ([]FaceTemplate, error) {
	var out []FaceTemplate
	resp, err := c.req().SetContext(ctx).SetResult(&out).
		Get("/api/employees/" + itoa(employeeID) + "/face_templates")
	if err := check("list face templates", resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

// AddFaceTemplate enrolls one face image (as a data URL) for the
// employee. poseLabel may be "front", "left", "right", or empty.
// The backend answers 422 when no face is found in the image.
func (c *Client) AddFaceTemplate(ctx context.Context, employeeID int64, dataURL, poseLabel string) error {
	if !strings.Contains(dataURL, "base64,") {
		return fmt.Errorf("add face template: image data URL required")
	}
	body := map[string]any{"image": dataURL}
	if poseLabel != "" {
		body["pose_label"] = poseLabel
	}
	resp, err := c.req().SetContext(ctx).SetBody(body).
		Post("/api/employees/" + itoa(employeeID) + "/face_templates")
	return check("add face template", resp, err)
}

// ClearFaceTemplates deletes every stored template and face crop for
// the employee.
func (c *Client) ClearFaceTemplates(ctx context.Context, employeeID int64) error {
	resp, err := c.req().SetContext(ctx).
		Delete("/api/employees/" + itoa(employeeID) + "/face_templates")
	return check("clear face templates", resp, err)
}

// MarkAbsent flags the given employees absent for today and returns
// how many rows changed. Employees already PRESENT today are skipped
// by the backend.
func (c *Client) MarkAbsent(ctx context.Context, employeeIDs []int64) (int64, error) {
	if len(employeeIDs) == 0 {
		return 0, nil
	}
	var out struct {
		OK      bool  `json:"ok"`
		Updated int64 `json:"updated"`
	}
	resp, err := c.req().SetContext(ctx).
		SetBody(map[string]any{"employee_ids": employeeIDs}).
		SetResult(&out).
		Post("/api/admin/mark_absent")
	if err := check("mark absent", resp, err); err != nil {
		return 0, err
	}
	return out.Updated, nil
}
