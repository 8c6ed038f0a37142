package seed

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/talentoplus/backend/internal/domain"
	"github.com/talentoplus/backend/internal/service"
	"github.com/talentoplus/backend/internal/utils"
)

type Store interface {
	service.EmployeeStore
	service.DepartmentStore
}

// SeedRandomEmployees 插入 n 个随机员工，返回实际插入的数量
func SeedRandomEmployees(ctx context.Context, store Store, n int, emailDomain string) int {
	departments := make(map[string]*domain.Department)

	cnt := 0
	for i := 0; i < n; i++ {
		employee := utils.GenerateRandomEmployee(emailDomain)

		department, err := resolveDepartment(ctx, store, departments, employee.Department.Name)
		if err != nil {
			slog.Error("无法获取部门", slog.String("name", employee.Department.Name), slog.String("error", err.Error()))
			continue
		}
		employee.DepartmentID = &department.ID
		employee.Department = nil

		if err := store.CreateEmployee(ctx, employee); err != nil {
			// 随机生成的证件号有可能重复
			slog.Error("无法插入员工", slog.String("document", employee.Document), slog.String("error", err.Error()))
			continue
		}

		cnt++
	}

	return cnt
}

func resolveDepartment(ctx context.Context, store Store, cache map[string]*domain.Department, name string) (*domain.Department, error) {
	if d, ok := cache[name]; ok {
		return d, nil
	}

	d, err := store.GetDepartmentByName(ctx, name)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		d = &domain.Department{Name: name}
		if err := store.CreateDepartment(ctx, d); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	cache[name] = d
	return d, nil
}

// ImportFile 用和上传接口相同的逻辑导入本地的 Excel 或 CSV 文件
func ImportFile(ctx context.Context, importer *service.Importer, path string) (*service.ImportResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, err
	}

	return importer.Import(ctx, filepath.Base(path), file, info.Size())
}
