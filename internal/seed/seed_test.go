package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/talentoplus/backend/internal/repository/memory"
	"github.com/talentoplus/backend/internal/service"
)

func TestSeedRandomEmployees(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	cnt := SeedRandomEmployees(ctx, store, 20, "talentoplus.com")
	if cnt == 0 {
		t.Fatalf("expected some employees to be inserted")
	}

	employees, err := store.GetAllEmployees(ctx)
	if err != nil {
		t.Fatalf("get all employees: %v", err)
	}
	if len(employees) != cnt {
		t.Fatalf("expected %d employees, got %d", cnt, len(employees))
	}

	departments, err := store.GetAllDepartments(ctx)
	if err != nil {
		t.Fatalf("get all departments: %v", err)
	}
	seen := make(map[string]bool)
	for _, d := range departments {
		if seen[d.Name] {
			t.Fatalf("department %q created twice", d.Name)
		}
		seen[d.Name] = true
	}

	for _, e := range employees {
		if e.DepartmentID == nil || e.Department == nil {
			t.Fatalf("employee %s has no department", e.Document)
		}
	}
}

func TestImportFile(t *testing.T) {
	store := memory.NewStore()
	importer := service.NewImporter(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	path := filepath.Join(t.TempDir(), "empleados.csv")
	data := "Documento,Nombres,Apellidos,FechaNacimiento,Direccion,Telefono,Email,Cargo,Salario,FechaIngreso,Estado,NivelEducativo,PerfilProfesional,Departamento\n" +
		"123,Ana,Gomez,1990-01-01,Calle 1,300,ana@example.com,Dev,1000,2020-05-01,Activo,Profesional,Perfil,Ventas\n" +
		"456,Luis,Perez,1985-03-10,Calle 2,301,luis@example.com,QA,2000,2019-02-01,Vacaciones,Tecnólogo,Perfil,Ventas\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	result, err := ImportFile(context.Background(), importer, path)
	if err != nil {
		t.Fatalf("import file: %v", err)
	}
	if result.Processed != 2 {
		t.Fatalf("expected 2 processed rows, got %d", result.Processed)
	}

	if _, err := ImportFile(context.Background(), importer, filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
